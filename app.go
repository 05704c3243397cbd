// Package sigform wires the proposal form store, validator and exporters
// into one application context.
//
// An App owns the single form state of a session. Front ends (the command
// line, the interactive editor) drive it through the App instead of touching
// storage directly.
package sigform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-sigform/pkg/export"
	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/kvstore"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/render"
	"github.com/goliatone/go-sigform/pkg/renderers/document"
	"github.com/goliatone/go-sigform/pkg/renderers/text"
	"github.com/goliatone/go-sigform/pkg/renderers/tui"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// Option configures an App.
type Option func(*settings)

type settings struct {
	kv           kvstore.KV
	key          string
	locale       string
	themeName    string
	themeVariant string
	templatesDir string
	exportDir    string
	strictImport bool
	sink         export.Sink
	logger       *slog.Logger
	now          func() time.Time
}

// WithStorage sets the persistence backend. Defaults to memory.
func WithStorage(kv kvstore.KV) Option {
	return func(s *settings) {
		s.kv = kv
	}
}

// WithStorageKey overrides the snapshot key.
func WithStorageKey(key string) Option {
	return func(s *settings) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLocale selects the locale of messages and documents.
func WithLocale(locale string) Option {
	return func(s *settings) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithTheme selects the print theme and variant.
func WithTheme(name, variant string) Option {
	return func(s *settings) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithTemplatesDir replaces the embedded print templates with a directory.
func WithTemplatesDir(dir string) Option {
	return func(s *settings) {
		s.templatesDir = dir
	}
}

// WithExportDir sets where snapshots and print documents are written.
func WithExportDir(dir string) Option {
	return func(s *settings) {
		if dir != "" {
			s.exportDir = dir
		}
	}
}

// WithStrictImport rejects imported snapshots that fail the snapshot schema.
func WithStrictImport(strict bool) Option {
	return func(s *settings) {
		s.strictImport = strict
	}
}

// WithPrintSink overrides where print documents are delivered.
func WithPrintSink(sink export.Sink) Option {
	return func(s *settings) {
		s.sink = sink
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for filenames and stamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// App is the application context of one editing session.
type App struct {
	store     *store.Store
	catalog   *i18n.Catalog
	validator *validation.Validator
	renderers *render.Registry
	printer   *export.Printer
	renderOpt render.RenderOptions
	locale    string
	exportDir string
	logger    *slog.Logger
}

// New builds the App and restores the saved draft, if any.
func New(ctx context.Context, opts ...Option) (*App, error) {
	cfg := settings{
		key:       store.DefaultKey,
		locale:    i18n.DefaultLocale,
		exportDir: ".",
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.kv == nil {
		cfg.kv = kvstore.NewMemory()
	}
	if cfg.sink == nil {
		cfg.sink = export.FileSink{Dir: cfg.exportDir}
	}

	catalog, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("sigform: load catalog: %w", err)
	}

	themes, err := document.NewThemeCatalog()
	if err != nil {
		return nil, fmt.Errorf("sigform: %w", err)
	}
	themeConfig, err := themes.Resolve(cfg.themeName, cfg.themeVariant)
	if err != nil {
		return nil, fmt.Errorf("sigform: %w", err)
	}

	docRenderer, err := document.New(
		document.WithTranslator(catalog),
		document.WithLocale(cfg.locale),
		document.WithTemplatesDir(cfg.templatesDir),
	)
	if err != nil {
		return nil, fmt.Errorf("sigform: %w", err)
	}
	textRenderer, err := text.New(text.WithTranslator(catalog), text.WithLocale(cfg.locale))
	if err != nil {
		return nil, fmt.Errorf("sigform: %w", err)
	}
	renderers, err := render.NewRegistry(docRenderer, textRenderer)
	if err != nil {
		return nil, fmt.Errorf("sigform: %w", err)
	}

	validator := validation.New(validation.WithLocale(cfg.locale), validation.WithTranslator(catalog))

	storeOpts := []store.Option{
		store.WithKey(cfg.key),
		store.WithLogger(cfg.logger),
		store.WithClock(cfg.now),
	}
	if cfg.strictImport {
		schema, err := validation.DefaultSnapshotSchema()
		if err != nil {
			return nil, fmt.Errorf("sigform: %w", err)
		}
		storeOpts = append(storeOpts, store.WithSnapshotSchema(schema))
	}
	st := store.New(cfg.kv, storeOpts...)
	st.Load(ctx)

	renderOpt := render.RenderOptions{
		Locale:     cfg.locale,
		Translator: catalog,
		Theme:      themeConfig,
	}
	printer := export.NewPrinter(docRenderer, cfg.sink,
		export.WithValidator(validator),
		export.WithLogger(cfg.logger),
		export.WithRenderOptions(renderOpt),
		export.WithClock(cfg.now),
	)

	return &App{
		store:     st,
		catalog:   catalog,
		validator: validator,
		renderers: renderers,
		printer:   printer,
		renderOpt: renderOpt,
		locale:    cfg.locale,
		exportDir: cfg.exportDir,
		logger:    cfg.logger,
	}, nil
}

// Store exposes the form store.
func (a *App) Store() *store.Store {
	return a.store
}

// State returns a copy of the current form.
func (a *App) State() proposal.FormState {
	return a.store.State()
}

// Check validates the current form.
func (a *App) Check() validation.Result {
	return a.validator.Check(a.store.State())
}

// Print validates the form and delivers the print document. An invalid form
// returns *validation.Error.
func (a *App) Print(ctx context.Context) (string, error) {
	return a.printer.Print(ctx, a.store.State())
}

// Render renders the current form with a registered renderer. Outstanding
// validation issues are passed along so drafts show what is missing.
func (a *App) Render(ctx context.Context, name string) ([]byte, error) {
	renderer, err := a.renderers.Get(name)
	if err != nil {
		return nil, err
	}
	opts := a.renderOpt
	opts.Issues = render.MapIssues(a.Check().Issues).Sections
	return renderer.Render(ctx, a.store.State(), opts)
}

// T translates key in the App locale.
func (a *App) T(key string, args ...any) string {
	return i18n.Localizer{Translator: a.catalog, Locale: a.locale}.T(key, args...)
}

// Renderers lists the registered renderer names.
func (a *App) Renderers() []string {
	return a.renderers.List()
}

// ExportSnapshot writes the JSON snapshot into the export directory and
// returns its path. Drafts can be exported without passing validation.
func (a *App) ExportSnapshot() (string, error) {
	snapshot, err := a.store.Export()
	if err != nil {
		return "", err
	}
	return export.SaveSnapshot(a.exportDir, snapshot)
}

// ImportFile replaces the form with the snapshot at path.
func (a *App) ImportFile(path string) error {
	raw, err := export.ReadSnapshot(path)
	if err != nil {
		return err
	}
	_, err = a.store.Import(raw)
	return err
}

// Clear removes the saved draft and resets the form.
func (a *App) Clear(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// Editor returns an interactive editor bound to this App.
func (a *App) Editor(opts ...tui.Option) (*tui.Editor, error) {
	base := []tui.Option{
		tui.WithTranslator(a.catalog),
		tui.WithLocale(a.locale),
		tui.WithValidator(a.validator),
		tui.WithPrinter(a.printer),
		tui.WithExportDir(a.exportDir),
		tui.WithLogger(a.logger),
	}
	return tui.NewEditor(a.store, append(base, opts...)...)
}

// IsInvalid reports whether err is a validation failure and returns it.
func IsInvalid(err error) (*validation.Error, bool) {
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return invalid, true
	}
	return nil, false
}
