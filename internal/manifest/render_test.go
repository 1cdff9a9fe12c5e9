package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_Render_Shape(t *testing.T) {
	c := NewComposite()
	require.NoError(t, c.Merge("a", entriesFrom(t, sampleCompose, "redis", "postgres")))
	require.NoError(t, c.Merge("b", entriesFrom(t, sampleCompose, "x-logging")))

	data, err := c.Render()
	require.NoError(t, err)

	doc, err := ParseDocument(string(data))
	require.NoError(t, err)

	keys := make([]string, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		keys = append(keys, e.Key)
	}
	// Fixed top-level order: version, services, then extensions at root.
	assert.Equal(t, []string{"version", "services", "x-logging"}, keys)

	version := doc.Lookup("version")
	require.NotNil(t, version)
	assert.Equal(t, "!!str", version.Tag)
	assert.Equal(t, ComposeVersion, version.Scalar)

	services := doc.Lookup("services")
	require.NotNil(t, services)
	assert.Equal(t, []string{"redis", "postgres"},
		[]string{services.Entries[0].Key, services.Entries[1].Key})
}

func TestComposite_Render_VersionIsToolDefined(t *testing.T) {
	// sampleCompose declares version 2.4; the output never inherits it.
	c := NewComposite()
	require.NoError(t, c.Merge("a", entriesFrom(t, sampleCompose, "redis")))

	data, err := c.Render()
	require.NoError(t, err)

	assert.Contains(t, string(data), `version: "3.8"`)
	assert.NotContains(t, string(data), "2.4")
}

func TestComposite_Render_EmptyServices(t *testing.T) {
	data, err := NewComposite().Render()
	require.NoError(t, err)

	doc, err := ParseDocument(string(data))
	require.NoError(t, err)
	services := doc.Lookup("services")
	require.NotNil(t, services)
	assert.Empty(t, services.Entries)
}

func TestComposite_Render_RoundTrip(t *testing.T) {
	c := NewComposite()
	require.NoError(t, c.Merge("a", entriesFrom(t, sampleCompose, "web", "redis", "x-postgres")))

	data, err := c.Render()
	require.NoError(t, err)

	// Extracting from the rendered output yields the same subtrees.
	again, err := Extract(string(data), []string{"web", "redis", "x-postgres"})
	require.NoError(t, err)
	original, err := Extract(sampleCompose, []string{"web", "redis", "x-postgres"})
	require.NoError(t, err)

	for i := range original {
		assert.True(t, original[i].Value.Equal(again[i].Value),
			"entry %s should survive a render round trip", original[i].Name)
	}
}

func TestComposite_Render_NoAliases(t *testing.T) {
	doc := `
x-common: &common
  restart: always
services:
  redis:
    <<: *common
    image: redis:7
`
	c := NewComposite()
	require.NoError(t, c.Merge("a", entriesFrom(t, doc, "redis")))

	data, err := c.Render()
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "&")
	assert.NotContains(t, out, "*common")
	assert.Contains(t, out, "restart: always")

	// No stray document markers or wrapper keys.
	assert.False(t, strings.Contains(out, "extensions:"))
}
