// Package config loads the sigform configuration from layered YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete sigform configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Locale  string        `yaml:"locale"`
	Theme   ThemeConfig   `yaml:"theme"`
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
}

// StorageConfig selects where the draft is kept between sessions.
type StorageConfig struct {
	// Backend is one of file, sqlite or memory.
	Backend string `yaml:"backend"`
	// Path is the directory (file) or database file (sqlite). Empty means
	// the user config directory.
	Path string `yaml:"path"`
	// Key names the stored snapshot.
	Key string `yaml:"key"`
}

// ThemeConfig configures the print document.
type ThemeConfig struct {
	Variant string `yaml:"variant"`
	// Templates overrides the embedded print templates with a directory.
	Templates string `yaml:"templates"`
}

// ExportConfig configures where exported files go.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// ImportConfig configures snapshot imports.
type ImportConfig struct {
	// Strict rejects snapshots that do not match the snapshot schema.
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "sigProposalData",
		},
		Locale: "ja",
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: storage.backend must be file, sqlite or memory, got %q", ErrInvalid, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%w: storage.key is required", ErrInvalid)
	}
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("%w: locale is required", ErrInvalid)
	}
	return nil
}

// StoragePath resolves the storage location, defaulting into dataDir.
func (c *Config) StoragePath(dataDir string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(dataDir, "sigform.db")
	case BackendFile:
		return filepath.Join(dataDir, "drafts")
	}
	return ""
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Merge copies the non-zero values of other into c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
	if other.Storage.Key != "" {
		c.Storage.Key = other.Storage.Key
	}

	if other.Locale != "" {
		c.Locale = other.Locale
	}

	if other.Theme.Variant != "" {
		c.Theme.Variant = other.Theme.Variant
	}
	if other.Theme.Templates != "" {
		c.Theme.Templates = other.Theme.Templates
	}

	if other.Export.Dir != "" {
		c.Export.Dir = other.Export.Dir
	}

	if other.Import.Strict {
		c.Import.Strict = true
	}
}
