// Package cli implements the sigform command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	sigform "github.com/goliatone/go-sigform"
	"github.com/goliatone/go-sigform/internal/config"
	"github.com/goliatone/go-sigform/pkg/kvstore"
	"github.com/goliatone/go-sigform/pkg/renderers/tui"
)

// ErrInvalidForm is returned by commands that refuse an invalid form.
var ErrInvalidForm = errors.New("form has validation errors")

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Locale     string
	Verbose    bool

	loaderOpts []config.LoaderOption
	driver     tui.PromptDriver
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigform",
		Short: "Edit, check and export SIG proposal forms",
		Long: `sigform keeps a draft of a SIG proposal between sessions, checks it
against the submission rules and exports it as a JSON snapshot or a print
document.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (overrides user and project config)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "message locale (ja|en)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session is an opened App plus the resources to release with it.
type session struct {
	app    *sigform.App
	cfg    *config.Config
	logger *slog.Logger
	close  func() error
}

func openSession(cmd *cobra.Command, opts *RootOptions, extra ...sigform.Option) (*session, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	loader := config.NewLoader(logger, opts.loaderOpts...)

	cfg, err := loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Locale != "" {
		cfg.Locale = opts.Locale
	}

	kv, closeKV, err := openStorage(cfg, loader.DataDir())
	if err != nil {
		return nil, err
	}
	logger.Debug("storage opened", slog.String("backend", cfg.Storage.Backend), slog.String("path", cfg.StoragePath(loader.DataDir())))

	appOpts := []sigform.Option{
		sigform.WithStorage(kv),
		sigform.WithStorageKey(cfg.Storage.Key),
		sigform.WithLocale(cfg.Locale),
		sigform.WithTheme("", cfg.Theme.Variant),
		sigform.WithTemplatesDir(cfg.Theme.Templates),
		sigform.WithExportDir(cfg.Export.Dir),
		sigform.WithStrictImport(cfg.Import.Strict),
		sigform.WithLogger(logger),
	}
	app, err := sigform.New(contextOf(cmd), append(appOpts, extra...)...)
	if err != nil {
		_ = closeKV()
		return nil, err
	}
	return &session{app: app, cfg: cfg, logger: logger, close: closeKV}, nil
}

func openStorage(cfg *config.Config, dataDir string) (kvstore.KV, func() error, error) {
	noop := func() error { return nil }
	path := cfg.StoragePath(dataDir)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kvstore.NewMemory(), noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}
		db, err := kvstore.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		fs, err := kvstore.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, noop, nil
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
