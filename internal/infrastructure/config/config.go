// Package config resolves carbonkit configuration: built-in defaults,
// overlaid by an optional YAML file, overlaid by environment variables.
// Secrets (the Turso auth token) are environment-only.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/offsetlab/carbonkit/internal/estimator"
	"github.com/offsetlab/carbonkit/internal/util"
)

// Config is the top-level carbonkit configuration.
type Config struct {
	Database  Database  `yaml:"database"`
	Bootstrap Bootstrap `yaml:"bootstrap"`
}

// Database holds libsql connection settings. URL may be a remote Turso URL
// or empty, in which case a local file database under the XDG data dir is
// used.
type Database struct {
	URL       string `yaml:"url" envconfig:"CARBONKIT_DATABASE_URL"`
	AuthToken string `yaml:"-" envconfig:"CARBONKIT_AUTH_TOKEN"`
}

// Bootstrap holds estimator defaults, all overridable per command.
type Bootstrap struct {
	Iterations int `yaml:"iterations" envconfig:"CARBONKIT_ITERATIONS"`
}

func defaults() *Config {
	return &Config{
		Bootstrap: Bootstrap{Iterations: estimator.DefaultIterations},
	}
}

// Load resolves the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := DefaultPath()
	if err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if cfg.Bootstrap.Iterations < 1 {
		return nil, fmt.Errorf("config: bootstrap.iterations must be >= 1, got %d", cfg.Bootstrap.Iterations)
	}
	return cfg, nil
}

// DefaultPath returns the config file location, respecting XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "carbonkit", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "carbonkit", "config.yaml"), nil
}

// ResolveDatabaseURL returns the connection URL, creating the local data
// directory when falling back to the default file database.
func (d Database) ResolveDatabaseURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}

	dataDir, err := util.DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("config: create data dir: %w", err)
	}
	return "file:" + filepath.Join(dataDir, "carbonkit.db"), nil
}
