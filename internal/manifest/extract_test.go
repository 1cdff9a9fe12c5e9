package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompose = `
version: "2.4"
services:
  redis:
    image: redis:7
  postgres:
    build: docker/postgres
    image: postgres
  web:
    image: nginx
    depends_on:
      - redis
x-postgres:
  image: postgres:17
  environment:
    POSTGRES_DB: app
x-logging:
  driver: json-file
networks:
  default:
    driver: bridge
`

func TestExtract_Services(t *testing.T) {
	entries, err := Extract(sampleCompose, []string{"redis", "postgres"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "redis", entries[0].Name)
	assert.Equal(t, Service, entries[0].Kind)
	assert.Equal(t, "redis:7", entries[0].Value.Lookup("image").Scalar)

	assert.Equal(t, "postgres", entries[1].Name)
	assert.Equal(t, Service, entries[1].Kind)
	assert.Equal(t, "docker/postgres", entries[1].Value.Lookup("build").Scalar)
}

func TestExtract_RequestedOrderNotDocumentOrder(t *testing.T) {
	entries, err := Extract(sampleCompose, []string{"web", "redis"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// "redis" precedes "web" in the document, but the requested order wins.
	assert.Equal(t, "web", entries[0].Name)
	assert.Equal(t, "redis", entries[1].Name)
}

func TestExtract_Extension(t *testing.T) {
	entries, err := Extract(sampleCompose, []string{"x-postgres", "x-logging"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, Extension, entries[0].Kind)
	assert.Equal(t, "postgres:17", entries[0].Value.Lookup("image").Scalar)
	assert.Equal(t, Extension, entries[1].Kind)
}

func TestExtract_ServiceWinsOverExtension(t *testing.T) {
	doc := `
services:
  x-shared:
    image: from-services
x-shared:
  image: from-root
`
	entries, err := Extract(doc, []string{"x-shared"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, Service, entries[0].Kind)
	assert.Equal(t, "from-services", entries[0].Value.Lookup("image").Scalar)
}

func TestExtract_UnknownEntry(t *testing.T) {
	t.Run("name absent everywhere", func(t *testing.T) {
		_, err := Extract(sampleCompose, []string{"mongo"})
		assert.ErrorIs(t, err, ErrUnknownEntry)
		assert.Contains(t, err.Error(), "mongo")
	})

	t.Run("root key without x- prefix is not a candidate", func(t *testing.T) {
		_, err := Extract(sampleCompose, []string{"networks"})
		assert.ErrorIs(t, err, ErrUnknownEntry)
	})

	t.Run("extraction is atomic", func(t *testing.T) {
		entries, err := Extract(sampleCompose, []string{"redis", "mongo"})
		assert.ErrorIs(t, err, ErrUnknownEntry)
		assert.Nil(t, entries)
	})
}

func TestExtract_NoServicesSection(t *testing.T) {
	doc := `
x-logging:
  driver: json-file
`
	entries, err := Extract(doc, []string{"x-logging"})
	require.NoError(t, err)
	assert.Equal(t, Extension, entries[0].Kind)

	_, err = Extract(doc, []string{"redis"})
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

func TestExtract_ParseFailure(t *testing.T) {
	_, err := Extract("services: [broken\n", []string{"redis"})
	assert.Error(t, err)
}

func TestExtract_ServicesNotMapping(t *testing.T) {
	_, err := Extract("services: just-a-string\n", []string{"redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")
}

func TestExtract_AnchorsExpandedInEntries(t *testing.T) {
	doc := `
x-common: &common
  restart: always
services:
  redis:
    <<: *common
    image: redis:7
`
	entries, err := Extract(doc, []string{"redis"})
	require.NoError(t, err)

	redis := entries[0].Value
	assert.Equal(t, "always", redis.Lookup("restart").Scalar)
	assert.Equal(t, "redis:7", redis.Lookup("image").Scalar)
}
