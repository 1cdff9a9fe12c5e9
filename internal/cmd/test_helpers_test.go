package cmd

import (
	"bytes"
	"testing"
)

// executeCmd executes the root command with the given args and returns the
// combined output. Cobra command state is global, so args are always set
// explicitly before each execution.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	// Cobra's built-in help and version flags persist across Execute calls;
	// clear them so a prior --help or --version run does not leak into this one.
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	err := rootCmd.Execute()
	return buf.String(), err
}
