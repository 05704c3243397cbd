package document

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeName is the built-in print theme.
const ThemeName = "sigform-print"

// TemplateKey is the theme template slot that replaces the page template.
const TemplateKey = "document.page"

// StylesheetKey is the theme asset linked from the page head when present.
const StylesheetKey = "document.stylesheet"

// DefaultTheme returns the built-in print theme. It mirrors the serif,
// black-rule look of the paper form. The "compact" variant tightens type
// sizes for single-sheet printing.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"font-family":     "serif",
			"page-padding":    "20mm",
			"title-size":      "18pt",
			"heading-size":    "14pt",
			"subheading-size": "12pt",
			"note-size":       "9pt",
			"rule-color":      "#333",
			"muted-color":     "#666",
			"label-bg":        "#f0f0f0",
			"detail-bg":       "#f9f9f9",
			"detail-border":   "#ddd",
		},
		Templates: map[string]string{
			TemplateKey: PageTemplate,
		},
		Variants: map[string]theme.Variant{
			"compact": {
				Tokens: map[string]string{
					"page-padding": "12mm",
					"title-size":   "15pt",
					"heading-size": "12pt",
					"note-size":    "8pt",
				},
			},
		},
	}
}

// ResolveTheme merges variant overrides over the manifest base and derives
// CSS variables from the tokens. An empty variant selects the base.
func ResolveTheme(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, fmt.Errorf("document: theme manifest is required")
	}

	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyStringMap(manifest.Assets.Files)

	variant = strings.TrimSpace(variant)
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("document: theme %q has no variant %q", manifest.Name, variant)
		}
		tokens = mergeStringMap(tokens, v.Tokens)
		partials = mergeStringMap(partials, v.Templates)
		files = mergeStringMap(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}, nil
}

// ThemeCatalog selects print themes by name and variant.
type ThemeCatalog struct {
	manifests map[string]*theme.Manifest
}

// NewThemeCatalog validates manifests with a go-theme registry and indexes
// them by name. The built-in theme is always available.
func NewThemeCatalog(manifests ...*theme.Manifest) (*ThemeCatalog, error) {
	registry := theme.NewRegistry()
	c := &ThemeCatalog{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range append([]*theme.Manifest{DefaultTheme()}, manifests...) {
		if manifest == nil {
			continue
		}
		if _, exists := c.manifests[manifest.Name]; !exists {
			if err := registry.Register(manifest); err != nil {
				return nil, fmt.Errorf("document: register theme %q: %w", manifest.Name, err)
			}
		}
		c.manifests[manifest.Name] = manifest
	}
	return c, nil
}

// Select returns the manifest for name. An empty name selects the built-in
// theme.
func (c *ThemeCatalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = ThemeName
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("document: unknown theme %q", name)
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Resolve selects a theme and derives its renderer configuration.
func (c *ThemeCatalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ResolveTheme(selection.Manifest, selection.Variant)
}

// cssVarsStyle renders CSS variables as a sorted declaration list.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMap(base, overrides map[string]string) map[string]string {
	for key, value := range overrides {
		base[key] = value
	}
	return base
}
