package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is searched for in the working directory and its
	// parents.
	ProjectConfigFile = "sigform.yaml"
	// UserConfigDir is the user-level directory, relative to the home
	// directory. Drafts are stored below it unless configured otherwise.
	UserConfigDir = ".config/sigform"
	// UserConfigFile is the user-level config file name.
	UserConfigFile = "config.yaml"
)

// Loader resolves configuration with layered precedence.
type Loader struct {
	logger  *slog.Logger
	homeDir string
	workDir string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHomeDir overrides the home directory used for the user layer.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.homeDir = dir
	}
}

// WithWorkDir overrides where the project file search starts.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.workDir = dir
	}
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			l.homeDir = home
		}
	}
	if l.workDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			l.workDir = cwd
		}
	}
	return l
}

// Load applies, in order:
//  1. defaults
//  2. user config (~/.config/sigform/config.yaml)
//  3. project config (sigform.yaml in the working directory or a parent)
//  4. explicit, when not empty
//
// Missing user or project files are skipped. A broken user or project file
// is logged and skipped; a broken or missing explicit file is an error.
func (l *Loader) Load(explicit string) (*Config, error) {
	cfg := DefaultConfig()

	if path := l.UserConfigPath(); path != "" {
		if userCfg, err := LoadFromFile(path); err == nil {
			l.logger.Debug("loaded user config", slog.String("path", path))
			cfg.Merge(userCfg)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to load user config", slog.String("path", path), slog.Any("error", err))
		}
	}

	if path := l.findProjectConfig(); path != "" {
		if projectCfg, err := LoadFromFile(path); err == nil {
			l.logger.Debug("loaded project config", slog.String("path", path))
			cfg.Merge(projectCfg)
		} else {
			l.logger.Warn("failed to load project config", slog.String("path", path), slog.Any("error", err))
		}
	}

	if explicit != "" {
		explicitCfg, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config", slog.String("path", explicit))
		cfg.Merge(explicitCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserConfigPath returns the user-level config file path.
func (l *Loader) UserConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// DataDir is the default storage directory.
func (l *Loader) DataDir() string {
	if l.homeDir == "" {
		return "."
	}
	return filepath.Join(l.homeDir, UserConfigDir)
}

// EnsureUserConfig writes the defaults to the user config path when no file
// exists yet.
func (l *Loader) EnsureUserConfig() error {
	path := l.UserConfigPath()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("created default user config", slog.String("path", path))
	return nil
}

func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}
	dir := l.workDir
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
