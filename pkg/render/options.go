package render

import (
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sigform/pkg/i18n"
)

// RenderOptions carry per-call settings that renderers apply without
// touching the form itself.
type RenderOptions struct {
	// Locale selects headings and labels. Empty means the renderer default.
	Locale string
	// Translator overrides the renderer's message catalog.
	Translator i18n.Translator
	// OnMissing is called when a label key has no translation.
	OnMissing i18n.MissingTranslationHandler
	// Theme supplies tokens and CSS variables for styled output.
	Theme *theme.RendererConfig
	// Issues lets a renderer annotate sections with outstanding validation
	// messages, keyed by field path.
	Issues map[string][]string
	// GeneratedAt stamps the artifact. Zero means omit.
	GeneratedAt time.Time
}
