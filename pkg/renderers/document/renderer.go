// Package document renders the proposal as a print-ready HTML page laid out
// like the paper submission form.
package document

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/render"
	rendertemplate "github.com/goliatone/go-sigform/pkg/render/template"
	"github.com/goliatone/go-sigform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// Name is the registry name of the renderer.
const Name = "document"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       i18n.Translator
	locale           string
	sessions         proposal.SessionCatalog
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator sets the default label catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithLocale sets the default label locale.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		if locale != "" {
			cfg.locale = locale
		}
	}
}

// WithSessions overrides the session catalog used for labels.
func WithSessions(catalog proposal.SessionCatalog) Option {
	return func(cfg *config) {
		if len(catalog) > 0 {
			cfg.sessions = catalog
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	translator i18n.Translator
	locale     string
	sessions   proposal.SessionCatalog
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the print renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		locale:     i18n.DefaultLocale,
		sessions:   proposal.DefaultSessions,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("document renderer: load catalog: %w", err)
		}
		cfg.translator = catalog
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("document renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		translator: cfg.translator,
		locale:     cfg.locale,
		sessions:   cfg.sessions,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the print page. It does not validate; callers gate on
// validation before printing.
func (r *Renderer) Render(ctx context.Context, state proposal.FormState, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("document renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translator := r.translator
	if opts.Translator != nil {
		translator = opts.Translator
	}
	locale := r.locale
	if opts.Locale != "" {
		locale = opts.Locale
	}
	loc := i18n.Localizer{Translator: translator, Locale: locale, OnMissing: opts.OnMissing}

	data := r.view(state, loc, opts)
	for name, fn := range i18n.TemplateFuncs(translator, i18n.TemplateConfig{OnMissing: opts.OnMissing}) {
		data[name] = fn
	}

	page := PageTemplate
	if opts.Theme != nil {
		if override := strings.TrimSpace(opts.Theme.Partials[TemplateKey]); override != "" {
			page = override
		}
	}

	result, err := r.templates.RenderTemplate(page, data)
	if err != nil {
		return nil, fmt.Errorf("document renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type personRow struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Email       string `json:"email"`
}

type scheduleRow struct {
	Month      string `json:"month"`
	Activities string `json:"activities"`
}

type detailView struct {
	Target     string `json:"target"`
	Name       string `json:"name"`
	Overview   string `json:"overview"`
	Keywords   string `json:"keywords"`
	Presenters string `json:"presenters"`
}

func (r *Renderer) view(state proposal.FormState, loc i18n.Localizer, opts render.RenderOptions) map[string]any {
	people := make([]personRow, 0, len(state.Proposers)+1)
	people = append(people, personRow{
		Role:        loc.T("role.lead"),
		Name:        state.LeadSecretary.Name,
		Affiliation: state.LeadSecretary.Affiliation,
		Email:       state.LeadSecretary.Email,
	})
	for _, p := range state.Proposers {
		people = append(people, personRow{
			Role:        validation.RoleLabel(loc, p.Role),
			Name:        p.Name,
			Affiliation: p.Affiliation,
			Email:       p.Email,
		})
	}

	questions := make([]string, 0, len(state.Questions))
	for _, q := range state.Questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		questions = append(questions, q)
	}

	schedule := make([]scheduleRow, 0, len(state.Schedule))
	for _, row := range state.Schedule {
		if row.Month == "" || row.Activities == "" {
			continue
		}
		schedule = append(schedule, scheduleRow{Month: row.Month, Activities: row.Activities})
	}

	selected := r.sessions.Selected(state.PlannedSessions)
	labels := make([]string, 0, len(selected))
	for _, option := range selected {
		labels = append(labels, option.Label)
	}

	var detail *detailView
	if d := state.SessionDetails; d.Target != "" {
		detail = &detailView{
			Target:     d.Target,
			Name:       d.Name,
			Overview:   d.Overview,
			Keywords:   d.Keywords,
			Presenters: d.Presenters,
		}
	}

	promotion := state.FirstClassPromotion
	if promotion == proposal.PromotionUnset {
		promotion = "unset"
	}

	data := map[string]any{
		"locale":           loc.Locale,
		"submission_date":  state.SubmissionDate,
		"sig_name_ja":      loc.T("doc.sig_name", state.SigNameJa),
		"sig_name_en":      loc.T("doc.sig_name", state.SigNameEn),
		"sig_abbreviation": loc.T("doc.sig_name", state.SigAbbreviation),
		"people":           people,
		"overview":         state.Overview,
		"questions":        questions,
		"expected_effects": state.ExpectedEffects,
		"promotion":        loc.T("promotion." + string(promotion)),
		"sessions":         strings.Join(labels, loc.T("doc.list_separator")),
		"detail":           detail,
		"schedule":         schedule,
		"issues":           issueGroups(opts.Issues),
		"css_vars":         "",
		"stylesheet":       "",
		"theme":            "",
		"generated":        "",
	}
	if opts.Theme != nil {
		data["css_vars"] = cssVarsStyle(opts.Theme.CSSVars)
		data["theme"] = opts.Theme.Theme
		if opts.Theme.AssetURL != nil {
			data["stylesheet"] = opts.Theme.AssetURL(StylesheetKey)
		}
	}
	if !opts.GeneratedAt.IsZero() {
		data["generated"] = loc.T("doc.generated", opts.GeneratedAt.Format("2006-01-02 15:04"))
	}
	return data
}

type issueGroup struct {
	Section  string   `json:"section"`
	Messages []string `json:"messages"`
}

// issueGroups orders outstanding issues by print section.
func issueGroups(issues map[string][]string) []issueGroup {
	if len(issues) == 0 {
		return nil
	}
	groups := make([]issueGroup, 0, len(issues))
	for _, section := range append(render.Sections(), "") {
		if messages := issues[section]; len(messages) > 0 {
			groups = append(groups, issueGroup{Section: section, Messages: messages})
		}
	}
	return groups
}
