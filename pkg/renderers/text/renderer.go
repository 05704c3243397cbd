// Package text renders a plain-text summary of the proposal for terminals.
package text

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/render"
	rendertemplate "github.com/goliatone/go-sigform/pkg/render/template"
	"github.com/goliatone/go-sigform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-sigform/pkg/validation"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Name is the registry name of the renderer.
const Name = "text"

const summaryTemplate = "templates/summary.tmpl"

type Option func(*Renderer)

// WithTranslator sets the label catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(r *Renderer) {
		if t != nil {
			r.translator = t
		}
	}
}

// WithLocale sets the default locale.
func WithLocale(locale string) Option {
	return func(r *Renderer) {
		if locale != "" {
			r.locale = locale
		}
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.templates = renderer
		}
	}
}

// Renderer prints every section, including blank fields, so drafts can be
// reviewed before they are complete.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	translator i18n.Translator
	locale     string
	sessions   proposal.SessionCatalog
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		locale:   i18n.DefaultLocale,
		sessions: proposal.DefaultSessions,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("text renderer: load catalog: %w", err)
		}
		r.translator = catalog
	}
	if r.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(embeddedTemplates),
			gotemplate.WithTemplateFunc(map[string]any{"indent": pongo2.FilterFunction(filterIndent)}),
		)
		if err != nil {
			return nil, fmt.Errorf("text renderer: configure template renderer: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, state proposal.FormState, opts render.RenderOptions) ([]byte, error) {
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

	data := view(state, loc, r.sessions, opts)
	for name, fn := range i18n.TemplateFuncs(translator, i18n.TemplateConfig{OnMissing: opts.OnMissing}) {
		data[name] = fn
	}

	out, err := r.templates.RenderTemplate(summaryTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("text renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func view(state proposal.FormState, loc i18n.Localizer, sessions proposal.SessionCatalog, opts render.RenderOptions) map[string]any {
	people := make([]map[string]string, 0, len(state.Proposers)+1)
	people = append(people, map[string]string{
		"role":        loc.T("role.lead"),
		"name":        state.LeadSecretary.Name,
		"affiliation": state.LeadSecretary.Affiliation,
		"email":       state.LeadSecretary.Email,
	})
	for _, p := range state.Proposers {
		people = append(people, map[string]string{
			"role":        validation.RoleLabel(loc, p.Role),
			"name":        p.Name,
			"affiliation": p.Affiliation,
			"email":       p.Email,
		})
	}

	questions := make([]string, 0, len(state.Questions))
	for _, q := range state.Questions {
		if strings.TrimSpace(q) != "" {
			questions = append(questions, q)
		}
	}

	schedule := make([]proposal.ScheduleEntry, 0, len(state.Schedule))
	for _, row := range state.Schedule {
		if row.Month != "" && row.Activities != "" {
			schedule = append(schedule, row)
		}
	}

	labels := make([]string, 0, 6)
	for _, option := range sessions.Selected(state.PlannedSessions) {
		labels = append(labels, option.Label)
	}

	promotion := state.FirstClassPromotion
	if promotion == proposal.PromotionUnset {
		promotion = "unset"
	}

	var detail *proposal.SessionDetails
	if state.SessionDetails.Target != "" {
		d := state.SessionDetails
		detail = &d
	}

	var issues []string
	for _, section := range append(render.Sections(), "") {
		issues = append(issues, opts.Issues[section]...)
	}

	return map[string]any{
		"locale":           loc.Locale,
		"submission_date":  state.SubmissionDate,
		"sig_name_ja":      state.SigNameJa,
		"sig_name_en":      state.SigNameEn,
		"sig_abbreviation": state.SigAbbreviation,
		"people":           people,
		"overview":         state.Overview,
		"overview_chars":   charsLabel(loc, state.Overview, proposal.OverviewLimit),
		"questions":        questions,
		"expected_effects": state.ExpectedEffects,
		"effects_chars":    charsLabel(loc, state.ExpectedEffects, proposal.ExpectedEffectsLimit),
		"promotion":        loc.T("promotion." + string(promotion)),
		"sessions":         strings.Join(labels, loc.T("doc.list_separator")),
		"detail":           detail,
		"schedule":         schedule,
		"issues":           issues,
		"issues_header":    loc.T("validation.summary", len(issues)),
	}
}

func charsLabel(loc i18n.Localizer, text string, limit proposal.SoftLimit) string {
	label := loc.T("tui.chars", proposal.CharCount(text), limit.Target)
	if limit.Exceeded(text) {
		label += " !"
	}
	return label
}

// filterIndent prefixes every line with two spaces.
func filterIndent(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := strings.TrimRight(in.String(), "\n")
	if text == "" {
		return pongo2.AsValue(""), nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}
