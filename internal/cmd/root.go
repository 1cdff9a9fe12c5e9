// Package cmd provides the CLI commands for stevedore.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/config"
	"github.com/cameronsjo/stevedore/internal/fetch"
	"github.com/cameronsjo/stevedore/internal/fileutil"
	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/selector"
	"github.com/cameronsjo/stevedore/internal/ui"
)

const version = "0.3.0"

var (
	flagOutput  string
	flagDryRun  bool
	flagMerge   bool
	flagToken   string
	flagAPI     bool
	flagTimeout int
	flagConfig  string
)

// rootCmd represents the base command; composing is the whole job, so it
// runs directly on the root.
var rootCmd = &cobra.Command{
	Use:   "stevedore <selector>...",
	Short: "Load compose services out of remote repositories",
	Long: `stevedore - cargo loading for Docker Compose

Builds one docker-compose file by lifting named services and x- extension
fragments out of compose files hosted in GitHub repositories.

A selector names a file and the entries to take from it:

  owner/repo+ref:path@name1,name2,...

For example, to take the redis service and the x-postgres fragment from
omnivore-app/omnivore's compose file on main:

  stevedore omnivore-app/omnivore+main:docker-compose.yml@redis,x-postgres

Entries land in the output in selector order. Two selectors may contribute
the same entry only when their definitions are identical; differing
definitions abort the run and nothing is written.

UPDATES
  update                Update stevedore to the latest release`,
	Version:       version,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runCompose,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", config.DefaultOutput, "Path of the composed docker-compose file")
	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Print the composed file to stdout instead of writing it")
	rootCmd.Flags().BoolVarP(&flagMerge, "merge", "m", false, "Extend an existing output file instead of replacing it")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "GitHub token for API fetches (default: GITHUB_TOKEN, then config)")
	rootCmd.Flags().BoolVar(&flagAPI, "api", false, "Fetch through the GitHub Contents API instead of raw downloads")
	rootCmd.Flags().IntVar(&flagTimeout, "timeout", config.DefaultTimeoutSeconds, "Per-fetch timeout in seconds")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.config/stevedore/config.toml)")

	rootCmd.SetVersionTemplate("stevedore version {{.Version}}\n")
}

func runCompose(cmd *cobra.Command, args []string) error {
	sels := make([]selector.Selector, 0, len(args))
	for _, raw := range args {
		sel, err := selector.Parse(raw)
		if err != nil {
			ui.Error("%v", err)
			return err
		}
		sels = append(sels, sel)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		ui.Error("%v", err)
		return err
	}

	output := cfg.Output
	if cmd.Flags().Changed("output") {
		output = flagOutput
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cmd.Flags().Changed("timeout") {
		timeout = time.Duration(flagTimeout) * time.Second
	}

	token := flagToken
	if token == "" {
		token = cfg.Token()
	}

	var fetcher fetch.Fetcher
	if flagAPI || cfg.UseAPI {
		fetcher = fetch.NewAPIFetcher(token)
	} else {
		fetcher = fetch.NewRawFetcher(timeout)
	}

	composite := manifest.NewComposite()
	if flagMerge {
		data, readErr := os.ReadFile(output)
		switch {
		case readErr == nil:
			if err := composite.Seed(string(data), output); err != nil {
				ui.Error("read existing %s: %v", output, err)
				return err
			}
			ui.Info("Extending existing %s (%d services)", output, len(composite.Services))
		case !os.IsNotExist(readErr):
			ui.Error("read existing %s: %v", output, readErr)
			return readErr
		}
	}

	composite, err = manifest.BuildInto(cmd.Context(), fetcher, sels, composite)
	if err != nil {
		ui.Error("%v", err)
		return err
	}

	data, err := composite.Render()
	if err != nil {
		ui.Error("%v", err)
		return err
	}

	if flagDryRun {
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := fileutil.WriteFileAtomic(output, data, 0644); err != nil {
		ui.Error("write %s: %v", output, err)
		return err
	}

	ui.Success("Wrote %s (%d services, %d extensions)", output, len(composite.Services), len(composite.Extensions))
	return nil
}
