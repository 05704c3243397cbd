// Package validation checks a proposal form against the submission rules.
//
// Validate is pure: it reads a FormState snapshot, never mutates it, and
// returns every failing rule in the order the sections appear on the form.
package validation

import (
	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
)

// MinResearchMeetings is the number of research-meeting sessions required
// for first-class promotion.
const MinResearchMeetings = 2

// Option configures a Validator.
type Option func(*Validator)

// WithLocale selects the message locale.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		if locale != "" {
			v.locale = locale
		}
	}
}

// WithTranslator overrides the message catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(v *Validator) {
		if t != nil {
			v.translator = t
		}
	}
}

// WithSessions overrides the session catalog used for the national label.
func WithSessions(catalog proposal.SessionCatalog) Option {
	return func(v *Validator) {
		if len(catalog) > 0 {
			v.sessions = catalog
		}
	}
}

// Validator evaluates the rule table. The zero value is not usable; call
// New.
type Validator struct {
	translator i18n.Translator
	locale     string
	sessions   proposal.SessionCatalog
}

// New constructs a Validator with the embedded catalog and default sessions.
func New(options ...Option) *Validator {
	v := &Validator{
		locale:   i18n.DefaultLocale,
		sessions: proposal.DefaultSessions,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	if v.translator == nil {
		if c, err := i18n.Default(); err == nil {
			v.translator = c
		}
	}
	return v
}

// Locale reports the message locale.
func (v *Validator) Locale() string {
	return v.locale
}

// Check runs every rule and returns the accumulated result.
func (v *Validator) Check(state proposal.FormState) Result {
	c := &checker{
		state:    state,
		sessions: v.sessions,
		loc: i18n.Localizer{
			Translator: v.translator,
			Locale:     v.locale,
		},
	}
	for _, section := range sections {
		section(c)
	}
	return Result{
		Valid:  len(c.issues) == 0,
		Issues: c.issues,
	}
}

// Messages returns the localized messages for state; empty means valid.
func (v *Validator) Messages(state proposal.FormState) []string {
	return v.Check(state).Messages()
}

// Validate checks state with the default validator.
func Validate(state proposal.FormState) []string {
	return New().Messages(state)
}
