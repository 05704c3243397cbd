// Package tui runs an interactive terminal session over the form store.
// Every answer is applied to the store as soon as it is given, so the
// persistence observer saves the draft while the user types.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-sigform/pkg/export"
	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// FormStore is the part of the state store the editor drives.
type FormStore interface {
	State() proposal.FormState
	Mutate(updaters ...proposal.Updater) proposal.FormState
	Import(raw []byte) (proposal.FormState, error)
	Export() (store.Snapshot, error)
	Clear(ctx context.Context) error
}

// Printer produces the print document for a valid form.
type Printer interface {
	Print(ctx context.Context, state proposal.FormState) (string, error)
}

type action string

const (
	actionEdit   action = "edit"
	actionCheck  action = "check"
	actionPrint  action = "print"
	actionExport action = "export"
	actionImport action = "import"
	actionClear  action = "clear"
	actionQuit   action = "quit"
)

type section int

// Sections in the order they appear on the form.
const (
	sectionDate section = iota
	sectionNames
	sectionLead
	sectionProposers
	sectionOverview
	sectionQuestions
	sectionEffects
	sectionPromotion
	sectionSessions
	sectionSchedule
)

var sectionKeys = []string{
	sectionDate:      "doc.submission_date",
	sectionNames:     "doc.section.names",
	sectionLead:      "role.lead",
	sectionProposers: "doc.section.proposers",
	sectionOverview:  "doc.section.overview",
	sectionQuestions: "doc.section.questions",
	sectionEffects:   "doc.section.effects",
	sectionPromotion: "doc.section.promotion",
	sectionSessions:  "doc.section.sessions",
	sectionSchedule:  "doc.section.schedule",
}

// Editor walks the user through the form sections and the main actions.
type Editor struct {
	store      FormStore
	driver     PromptDriver
	translator i18n.Translator
	locale     string
	validator  *validation.Validator
	printer    Printer
	exportDir  string
	sessions   proposal.SessionCatalog
	logger     *slog.Logger
	theme      Theme
}

// NewEditor builds an editor over st. The survey driver is used unless
// WithPromptDriver overrides it.
func NewEditor(st FormStore, opts ...Option) (*Editor, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	e := &Editor{
		store:     st,
		locale:    i18n.DefaultLocale,
		exportDir: ".",
		sessions:  proposal.DefaultSessions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	if e.translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("tui: load catalog: %w", err)
		}
		e.translator = catalog
	}
	if e.validator == nil {
		e.validator = validation.New(
			validation.WithLocale(e.locale),
			validation.WithTranslator(e.translator),
			validation.WithSessions(e.sessions),
		)
	}
	return e, nil
}

// Run shows the main menu until the user quits. Interrupting a prompt
// returns ErrAborted; the state already entered stays in the store.
func (e *Editor) Run(ctx context.Context) error {
	actions := e.actions()
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = e.t("tui.action." + string(a))
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := e.driver.Select(ctx, SelectConfig{Message: e.t("tui.menu"), Options: labels})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		chosen := actions[idx]
		if chosen == actionQuit {
			return nil
		}
		e.logger.Debug("tui action", slog.String("action", string(chosen)))
		if err := e.perform(ctx, chosen); err != nil {
			return err
		}
	}
}

func (e *Editor) actions() []action {
	out := []action{actionEdit, actionCheck}
	if e.printer != nil {
		out = append(out, actionPrint)
	}
	return append(out, actionExport, actionImport, actionClear, actionQuit)
}

func (e *Editor) perform(ctx context.Context, a action) error {
	switch a {
	case actionEdit:
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:  e.t("tui.section"),
			Options:  e.sectionLabels(),
			PageSize: len(sectionKeys),
		})
		if err != nil {
			return err
		}
		return e.EditSection(ctx, idx)
	case actionCheck:
		return e.Check(ctx)
	case actionPrint:
		return e.Print(ctx)
	case actionExport:
		return e.Export(ctx)
	case actionImport:
		return e.Import(ctx)
	case actionClear:
		return e.Clear(ctx)
	}
	return nil
}

func (e *Editor) sectionLabels() []string {
	out := make([]string, len(sectionKeys))
	for i, key := range sectionKeys {
		out[i] = fmt.Sprintf("%d. %s", i+1, e.t(key))
	}
	return out
}

// EditAll walks every section in form order.
func (e *Editor) EditAll(ctx context.Context) error {
	for i := range sectionKeys {
		if err := e.EditSection(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// EditSection prompts for one section, indexed in form order.
func (e *Editor) EditSection(ctx context.Context, idx int) error {
	switch section(idx) {
	case sectionDate:
		return e.input(ctx, e.t("doc.submission_date"), e.store.State().SubmissionDate, "", func(v string) proposal.Updater {
			return proposal.SetField(proposal.FieldSubmissionDate, v)
		})
	case sectionNames:
		return e.editNames(ctx)
	case sectionLead:
		return e.editLead(ctx)
	case sectionProposers:
		return e.editRows(ctx, e.t("doc.section.proposers"), e.proposerRows())
	case sectionOverview:
		return e.textArea(ctx, e.t("doc.section.overview"), e.store.State().Overview, proposal.OverviewLimit, func(v string) proposal.Updater {
			return proposal.SetField(proposal.FieldOverview, v)
		})
	case sectionQuestions:
		return e.editRows(ctx, e.t("doc.section.questions"), e.questionRows())
	case sectionEffects:
		return e.textArea(ctx, e.t("doc.section.effects"), e.store.State().ExpectedEffects, proposal.ExpectedEffectsLimit, func(v string) proposal.Updater {
			return proposal.SetField(proposal.FieldExpectedEffects, v)
		})
	case sectionPromotion:
		return e.editPromotion(ctx)
	case sectionSessions:
		return e.editSessions(ctx)
	case sectionSchedule:
		return e.editRows(ctx, e.t("doc.section.schedule"), e.scheduleRows())
	}
	return nil
}

func (e *Editor) editNames(ctx context.Context) error {
	state := e.store.State()
	fields := []struct {
		key   string
		field proposal.Field
		value string
	}{
		{"doc.name_ja", proposal.FieldSigNameJa, state.SigNameJa},
		{"doc.name_en", proposal.FieldSigNameEn, state.SigNameEn},
		{"doc.abbreviation", proposal.FieldSigAbbreviation, state.SigAbbreviation},
	}
	for _, f := range fields {
		field := f.field
		if err := e.input(ctx, e.t(f.key), f.value, "", func(v string) proposal.Updater {
			return proposal.SetField(field, v)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) editLead(ctx context.Context) error {
	lead := e.store.State().LeadSecretary
	fields := []struct {
		key   string
		field proposal.PersonField
		value string
	}{
		{"doc.col.name", proposal.PersonName, lead.Name},
		{"doc.col.affiliation", proposal.PersonAffiliation, lead.Affiliation},
		{"doc.col.email", proposal.PersonEmail, lead.Email},
	}
	for _, f := range fields {
		field := f.field
		if err := e.input(ctx, e.t("role.lead")+" "+e.t(f.key), f.value, "", func(v string) proposal.Updater {
			return proposal.SetLeadSecretary(field, v)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) editPromotion(ctx context.Context) error {
	choices := []proposal.Promotion{proposal.PromotionOptIn, proposal.PromotionOptOut}
	labels := make([]string, len(choices))
	current := -1
	for i, choice := range choices {
		labels[i] = e.t("promotion." + string(choice))
		if e.store.State().FirstClassPromotion == choice {
			current = i
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:      e.t("doc.section.promotion"),
		Options:      labels,
		DefaultIndex: current,
		Help:         e.t("doc.promotion_note"),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(choices) {
		return nil
	}
	e.store.Mutate(proposal.SetField(proposal.FieldFirstClassPromotion, string(choices[idx])))
	return nil
}

// editSessions asks for the planned sessions, then for the session details
// when at least one session is planned.
func (e *Editor) editSessions(ctx context.Context) error {
	state := e.store.State()
	labels := make([]string, len(e.sessions))
	var defaults []int
	for i, option := range e.sessions {
		labels[i] = option.Label
		if state.PlannedSessions.Get(option.Key) {
			defaults = append(defaults, i)
		}
	}
	picked, err := e.driver.MultiSelect(ctx, SelectConfig{
		Message:  e.t("tui.sessions_pick"),
		Options:  labels,
		Defaults: defaults,
		PageSize: len(labels),
	})
	if err != nil {
		return err
	}

	selected := make(map[int]bool, len(picked))
	for _, idx := range picked {
		selected[idx] = true
	}
	updaters := make([]proposal.Updater, 0, len(e.sessions))
	for i, option := range e.sessions {
		updaters = append(updaters, proposal.SetSession(option.Key, selected[i]))
	}
	state = e.store.Mutate(updaters...)
	if !state.PlannedSessions.Any() {
		return nil
	}
	return e.editDetails(ctx)
}

func (e *Editor) editDetails(ctx context.Context) error {
	details := e.store.State().SessionDetails
	labels := make([]string, len(e.sessions))
	current := -1
	for i, option := range e.sessions {
		labels[i] = option.Label
		if option.Label == details.Target {
			current = i
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:      e.t("doc.detail") + " " + e.t("doc.detail.target"),
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(labels) {
		e.store.Mutate(proposal.SetSessionDetail(proposal.DetailTarget, labels[idx]))
	}

	if err := e.input(ctx, e.t("doc.detail.name"), details.Name, "", func(v string) proposal.Updater {
		return proposal.SetSessionDetail(proposal.DetailName, v)
	}); err != nil {
		return err
	}
	if err := e.textArea(ctx, e.t("doc.detail.overview"), details.Overview, proposal.SessionOverviewLimit, func(v string) proposal.Updater {
		return proposal.SetSessionDetail(proposal.DetailOverview, v)
	}); err != nil {
		return err
	}
	if err := e.input(ctx, e.t("doc.detail.keywords"), details.Keywords, "", func(v string) proposal.Updater {
		return proposal.SetSessionDetail(proposal.DetailKeywords, v)
	}); err != nil {
		return err
	}
	return e.input(ctx, e.t("doc.detail.presenters"), details.Presenters, "", func(v string) proposal.Updater {
		return proposal.SetSessionDetail(proposal.DetailPresenters, v)
	})
}

// Check shows the validation result: a confirmation line, or a count header
// followed by the numbered messages.
func (e *Editor) Check(ctx context.Context) error {
	result := e.validator.Check(e.store.State())
	if result.Valid {
		return e.info(ctx, e.t("validation.ok"))
	}
	return e.issues(ctx, e.t("validation.summary", len(result.Issues)), result.Issues)
}

// Print writes the print document. An invalid form is reported and nothing
// is written.
func (e *Editor) Print(ctx context.Context) error {
	if e.printer == nil {
		return nil
	}
	location, err := e.printer.Print(ctx, e.store.State())
	var invalid *validation.Error
	switch {
	case errors.As(err, &invalid):
		return e.issues(ctx, e.t("validation.blocked"), invalid.Issues)
	case err != nil:
		e.logger.Error("print failed", slog.Any("error", err))
		return e.fail(ctx, err.Error())
	}
	return e.info(ctx, e.t("tui.print.ok", location))
}

// Export saves the current state as a JSON snapshot in the export directory.
func (e *Editor) Export(ctx context.Context) error {
	snapshot, err := e.store.Export()
	if err != nil {
		return e.fail(ctx, err.Error())
	}
	path, err := export.SaveSnapshot(e.exportDir, snapshot)
	if err != nil {
		e.logger.Error("export failed", slog.Any("error", err))
		return e.fail(ctx, err.Error())
	}
	return e.info(ctx, e.t("tui.export.ok", path))
}

// Import asks for a snapshot path and replaces the state with its content.
// A failed read or parse leaves the state untouched.
func (e *Editor) Import(ctx context.Context) error {
	path, err := e.driver.Input(ctx, InputConfig{Message: e.t("tui.import.path")})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	raw, err := export.ReadSnapshot(path)
	if err == nil {
		_, err = e.store.Import(raw)
	}
	if err != nil {
		e.logger.Warn("import failed", slog.String("path", path), slog.Any("error", err))
		return e.fail(ctx, e.t("tui.import.failed"))
	}
	return e.info(ctx, e.t("tui.import.ok"))
}

// Clear resets the form after an explicit confirmation.
func (e *Editor) Clear(ctx context.Context) error {
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{Message: e.t("tui.confirm.clear")})
	if err != nil || !ok {
		return err
	}
	if err := e.store.Clear(ctx); err != nil {
		e.logger.Warn("clear storage failed", slog.Any("error", err))
		return e.fail(ctx, err.Error())
	}
	return nil
}

func (e *Editor) input(ctx context.Context, message, current, help string, update func(string) proposal.Updater) error {
	value, err := e.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: help})
	if err != nil {
		return err
	}
	e.store.Mutate(update(value))
	return nil
}

func (e *Editor) textArea(ctx context.Context, message, current string, limit proposal.SoftLimit, update func(string) proposal.Updater) error {
	value, err := e.driver.TextArea(ctx, TextAreaConfig{
		Message: message,
		Default: current,
		Help:    e.t("tui.chars", proposal.CharCount(current), limit.Target),
	})
	if err != nil {
		return err
	}
	e.store.Mutate(update(value))
	if limit.Exceeded(value) {
		return e.fail(ctx, e.t("tui.chars", proposal.CharCount(value), limit.Target))
	}
	return nil
}

func (e *Editor) issues(ctx context.Context, header string, issues []validation.Issue) error {
	if err := e.fail(ctx, header); err != nil {
		return err
	}
	for i, issue := range issues {
		if err := e.driver.Info(ctx, fmt.Sprintf("%d. %s", i+1, issue.Message)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) info(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.InfoPrefix+msg)
}

func (e *Editor) fail(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.ErrorPrefix+msg)
}

func (e *Editor) localizer() i18n.Localizer {
	return i18n.Localizer{Translator: e.translator, Locale: e.locale}
}

func (e *Editor) t(key string, args ...any) string {
	return e.localizer().T(key, args...)
}
