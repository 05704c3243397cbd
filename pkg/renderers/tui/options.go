package tui

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// Theme captures optional prefixes the editor puts in front of messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithTranslator sets the message catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(e *Editor) {
		if t != nil {
			e.translator = t
		}
	}
}

// WithLocale selects the prompt locale.
func WithLocale(locale string) Option {
	return func(e *Editor) {
		if locale = strings.TrimSpace(locale); locale != "" {
			e.locale = locale
		}
	}
}

// WithValidator overrides the validator used by the check action.
func WithValidator(v *validation.Validator) Option {
	return func(e *Editor) {
		if v != nil {
			e.validator = v
		}
	}
}

// WithPrinter enables the print action.
func WithPrinter(p Printer) Option {
	return func(e *Editor) {
		e.printer = p
	}
}

// WithExportDir sets where JSON snapshots are written.
func WithExportDir(dir string) Option {
	return func(e *Editor) {
		if dir = strings.TrimSpace(dir); dir != "" {
			e.exportDir = dir
		}
	}
}

// WithSessions overrides the session catalog offered by the sessions section.
func WithSessions(catalog proposal.SessionCatalog) Option {
	return func(e *Editor) {
		if len(catalog) > 0 {
			e.sessions = catalog
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}
