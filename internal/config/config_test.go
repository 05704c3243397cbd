package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "sigProposalData", cfg.Storage.Key)
	assert.Equal(t, "ja", cfg.Locale)
	assert.Equal(t, ".", cfg.Export.Dir)
	assert.False(t, cfg.Import.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(*Config) {}},
		{name: "sqlite backend", modify: func(c *Config) { c.Storage.Backend = BackendSQLite }},
		{name: "memory backend", modify: func(c *Config) { c.Storage.Backend = BackendMemory }},
		{name: "unknown backend", modify: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "missing key", modify: func(c *Config) { c.Storage.Key = " " }, wantErr: true},
		{name: "missing locale", modify: func(c *Config) { c.Locale = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("data", "drafts"), cfg.StoragePath("data"))

	cfg.Storage.Backend = BackendSQLite
	assert.Equal(t, filepath.Join("data", "sigform.db"), cfg.StoragePath("data"))

	cfg.Storage.Backend = BackendMemory
	assert.Empty(t, cfg.StoragePath("data"))

	cfg.Storage.Path = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.StoragePath("data"))
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Storage: StorageConfig{Backend: BackendSQLite},
		Theme:   ThemeConfig{Variant: "compact"},
		Import:  ImportConfig{Strict: true},
	})

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "sigProposalData", cfg.Storage.Key)
	assert.Equal(t, "compact", cfg.Theme.Variant)
	assert.Equal(t, "ja", cfg.Locale)
	assert.True(t, cfg.Import.Strict)

	cfg.Merge(nil)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "nested", "deeper")
	require.NoError(t, os.MkdirAll(work, 0o755))

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "locale: en\nstorage:\n  backend: sqlite\n")
	writeFile(t, filepath.Join(project, ProjectConfigFile), "export:\n  dir: out\ntheme:\n  variant: compact\n")
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, "storage:\n  backend: memory\n")

	loader := NewLoader(nil, WithHomeDir(home), WithWorkDir(work))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "out", cfg.Export.Dir)
	assert.Equal(t, "compact", cfg.Theme.Variant)

	cfg, err = loader.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoaderSkipsBrokenProjectFile(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	writeFile(t, filepath.Join(work, ProjectConfigFile), "storage: [not a map\n")

	cfg, err := NewLoader(nil, WithHomeDir(home), WithWorkDir(work)).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderExplicitErrors(t *testing.T) {
	loader := NewLoader(nil, WithHomeDir(t.TempDir()), WithWorkDir(t.TempDir()))

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	writeFile(t, invalid, "storage:\n  backend: redis\n")
	_, err = loader.Load(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	loader := NewLoader(nil, WithHomeDir(home), WithWorkDir(t.TempDir()))

	require.NoError(t, loader.EnsureUserConfig())
	loaded, err := LoadFromFile(loader.UserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)

	writeFile(t, loader.UserConfigPath(), "locale: en\n")
	require.NoError(t, loader.EnsureUserConfig())
	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, filepath.Join(home, UserConfigDir), loader.DataDir())
}
