// Package config provides layered configuration loading: built-in
// defaults, an optional YAML file, then SYMDEX_* environment overrides.
// Command-line flags are applied last by the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tool-wide settings that can come from a file or the
// environment. Per-run settings (filters, the debug-info path) are
// flags only.
type Config struct {
	// BasePath re-roots declared source paths when set.
	BasePath string `yaml:"base_path" env:"SYMDEX_BASE_PATH"`
	// LogLevel sets the stderr logging level.
	LogLevel string `yaml:"log_level" env:"SYMDEX_LOG_LEVEL"`
	// Format selects the output format (text, json).
	Format string `yaml:"format" env:"SYMDEX_FORMAT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Format:   "text",
	}
}

// DefaultPath returns the default config file location, or "" when no
// home directory is available.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".symdex", "config.yaml")
}

// Load resolves the configuration. With an explicit path the file must
// exist and parse; with no path the default location is used when
// present and skipped silently otherwise. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case explicit || !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
