package ui

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// captureColorOutput captures output from the color package.
// The color package uses color.Output which defaults to os.Stdout.
func captureColorOutput(fn func()) string {
	// Save original state
	oldNoColor := color.NoColor
	oldOutput := color.Output

	// Configure for testing
	color.NoColor = true

	// Create pipe
	r, w, _ := os.Pipe()

	// Set color.Output to our pipe
	color.Output = w

	// Also redirect os.Stdout for fmt.Printf calls
	oldStdout := os.Stdout
	os.Stdout = w

	// Run the function
	fn()

	// Close writer
	w.Close()

	// Restore
	color.Output = oldOutput
	color.NoColor = oldNoColor
	os.Stdout = oldStdout

	// Read output
	var buf bytes.Buffer
	io.Copy(&buf, r)
	r.Close()

	return buf.String()
}

func TestSuccess(t *testing.T) {
	output := captureColorOutput(func() {
		Success("wrote %s", "docker-compose.yml")
	})
	assert.Contains(t, output, "wrote docker-compose.yml")
	assert.Contains(t, output, "✓")
}

func TestWarning(t *testing.T) {
	output := captureColorOutput(func() {
		Warning("existing output will be extended")
	})
	assert.Contains(t, output, "existing output will be extended")
	assert.Contains(t, output, "⚠")
}

func TestInfo(t *testing.T) {
	output := captureColorOutput(func() {
		Info("fetching %d selectors", 3)
	})
	assert.Contains(t, output, "fetching 3 selectors")
}

func TestStep(t *testing.T) {
	output := captureColorOutput(func() {
		Step(2, "merging entries")
	})
	assert.Contains(t, output, "[2]")
	assert.Contains(t, output, "merging entries")
}
