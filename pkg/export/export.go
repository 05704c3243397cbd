// Package export hands finished artifacts to the outside world: print
// documents to a sink and JSON snapshots to files.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/render"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// ErrNoRenderer is returned when a Printer has no document renderer.
var ErrNoRenderer = errors.New("export: document renderer is required")

// Document is a rendered artifact ready for a sink.
type Document struct {
	Name        string
	ContentType string
	Body        []byte
}

// Sink receives completed documents. Deliver returns once the document is
// fully handed off; its return is the print completion point.
type Sink interface {
	Deliver(ctx context.Context, doc Document) (string, error)
}

// Option configures a Printer.
type Option func(*Printer)

// WithValidator overrides the gate validator.
func WithValidator(v *validation.Validator) Option {
	return func(p *Printer) {
		if v != nil {
			p.validator = v
		}
	}
}

// WithLogger sets the printer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRenderOptions sets options passed to the renderer on every print.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(p *Printer) {
		p.renderOptions = opts
	}
}

// WithClock overrides the time source for document names.
func WithClock(now func() time.Time) Option {
	return func(p *Printer) {
		if now != nil {
			p.now = now
		}
	}
}

// Printer gates printing on validation, renders the document and delivers
// it to a sink.
type Printer struct {
	renderer      render.Renderer
	sink          Sink
	validator     *validation.Validator
	logger        *slog.Logger
	renderOptions render.RenderOptions
	now           func() time.Time
}

// NewPrinter wires a renderer to a sink.
func NewPrinter(renderer render.Renderer, sink Sink, opts ...Option) *Printer {
	p := &Printer{
		renderer: renderer,
		sink:     sink,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.validator == nil {
		p.validator = validation.New(validation.WithLocale(p.renderOptions.Locale))
	}
	return p
}

// Print validates state and, when valid, renders and delivers it. An
// invalid form returns *validation.Error and nothing is rendered.
func (p *Printer) Print(ctx context.Context, state proposal.FormState) (string, error) {
	if p.renderer == nil {
		return "", ErrNoRenderer
	}
	if p.sink == nil {
		return "", errors.New("export: sink is required")
	}

	if err := p.validator.Check(state).Err(); err != nil {
		p.logger.Info("print blocked by validation", slog.Any("error", err))
		return "", err
	}

	body, err := p.renderer.Render(ctx, state, p.renderOptions)
	if err != nil {
		return "", fmt.Errorf("export: render %s: %w", p.renderer.Name(), err)
	}

	doc := Document{
		Name:        DocumentName(state, p.now(), ".html"),
		ContentType: p.renderer.ContentType(),
		Body:        body,
	}
	location, err := p.sink.Deliver(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("export: deliver %s: %w", doc.Name, err)
	}
	p.logger.Info("print document delivered", slog.String("location", location), slog.Int("bytes", len(body)))
	return location, nil
}

// DocumentName names a print document after the abbreviation and date.
func DocumentName(state proposal.FormState, now time.Time, ext string) string {
	base := "sig-proposal"
	if state.SigAbbreviation != "" {
		base += "-" + state.SigAbbreviation
	}
	return base + "-" + now.UTC().Format("2006-01-02") + ext
}

// FileSink writes documents into a directory.
type FileSink struct {
	Dir string
}

func (s FileSink) Deliver(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return writeFile(s.Dir, doc.Name, doc.Body)
}

// WriterSink streams documents to a writer, such as stdout.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.W.Write(doc.Body); err != nil {
		return "", err
	}
	return "-", nil
}

// SaveSnapshot writes an exported snapshot into dir and returns its path.
func SaveSnapshot(dir string, snapshot store.Snapshot) (string, error) {
	return writeFile(dir, snapshot.Filename, snapshot.Data)
}

// ReadSnapshot reads a snapshot file in one shot.
func ReadSnapshot(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read snapshot: %w", err)
	}
	return data, nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
