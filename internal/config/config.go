// Package config handles the global bibtidy configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/bibtidy/config.yml.
type Config struct {
	Wrap     int               `yaml:"wrap,omitempty"`
	Indent   int               `yaml:"indent,omitempty"`
	Biber    string            `yaml:"biber,omitempty"`
	Acronyms map[string]string `yaml:"acronyms,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibtidy"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Emitter defaults, used when neither flags nor config set a value.
const (
	DefaultWrap   = 90
	DefaultIndent = 2
)

// cache caches the loaded config.
var cache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibtidy/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cache = &cfg
	return &cfg, nil
}

// Save writes the configuration, creating the config directory if
// needed. The load cache is invalidated so the next Load rereads.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cache = nil
	return nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	cache = nil
}
