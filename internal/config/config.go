// Package config loads stevedore's optional TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultOutput is where the composed file lands when nothing else says
// otherwise.
const DefaultOutput = "docker-compose.yml"

// DefaultTimeoutSeconds bounds a single fetch by default.
const DefaultTimeoutSeconds = 30

// Config holds the stevedore configuration. Every field is optional;
// command-line flags override anything set here.
type Config struct {
	// GithubToken authenticates API fetches. The GITHUB_TOKEN environment
	// variable takes precedence when set.
	GithubToken string `toml:"github_token"`

	// Output is the default output file path.
	Output string `toml:"output"`

	// UseAPI switches fetching to the GitHub Contents API.
	UseAPI bool `toml:"use_api"`

	// TimeoutSeconds bounds each fetch request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// DefaultPath returns ~/.config/stevedore/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stevedore", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Output:         DefaultOutput,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return cfg, nil
}

// Token resolves the GitHub token: environment first, then the config file.
func (c *Config) Token() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return c.GithubToken
}
