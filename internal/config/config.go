// Package config loads the console configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	remoteURLEnv   = "ATELIER_REMOTE_URL"
	remoteTokenEnv = "ATELIER_REMOTE_TOKEN"
	statePathEnv   = "ATELIER_STATE_PATH"
	catalogDirEnv  = "ATELIER_CATALOG_DIR"

	defaultRemoteURL = "http://127.0.0.1:8090"
	defaultTimeout   = 15
)

// Config holds the settings required across the application.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	State   StateConfig   `yaml:"state"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// RemoteConfig describes the remote collection store connection.
type RemoteConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the configured round-trip timeout.
func (r RemoteConfig) Timeout() time.Duration {
	seconds := r.TimeoutSeconds
	if seconds <= 0 {
		seconds = defaultTimeout
	}
	return time.Duration(seconds) * time.Second
}

// StateConfig describes the durable client-state database.
type StateConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig optionally points at a directory of .cue catalog files that
// replace the embedded collection registry.
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the configuration file at path, applies environment
// overrides, and fills defaults. A missing file is not an error: defaults
// and environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(remoteURLEnv); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv(remoteTokenEnv); v != "" {
		cfg.Remote.Token = v
	}
	if v := os.Getenv(statePathEnv); v != "" {
		cfg.State.Path = v
	}
	if v := os.Getenv(catalogDirEnv); v != "" {
		cfg.Catalog.Dir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = defaultRemoteURL
	}
	if cfg.State.Path == "" {
		cfg.State.Path = defaultStatePath()
	}
}

// defaultStatePath places the state database under the user home when
// resolvable, falling back to the working directory.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "atelier.db"
	}
	return filepath.Join(home, ".atelier", "state.db")
}
