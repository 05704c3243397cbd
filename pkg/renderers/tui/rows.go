package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// rowSet describes one repeated-row collection of the form.
type rowSet struct {
	floor  int
	count  func(proposal.FormState) int
	label  func(proposal.FormState, int) string
	add    proposal.Updater
	remove func(int) proposal.Updater
	edit   func(context.Context, int) error
}

const (
	rowAdd = iota
	rowEdit
	rowRemove
	rowDone
)

// editRows loops over the add/edit/remove menu until the user is done. A
// new row is edited right after it is added.
func (e *Editor) editRows(ctx context.Context, title string, rows rowSet) error {
	options := []string{e.t("tui.row.add"), e.t("tui.row.edit"), e.t("tui.row.remove"), e.t("tui.row.done")}
	for {
		choice, err := e.driver.Select(ctx, SelectConfig{
			Message: title + ": " + e.t("tui.rows"),
			Options: options,
		})
		if err != nil {
			return err
		}

		switch choice {
		case rowAdd:
			state := e.store.Mutate(rows.add)
			if err := rows.edit(ctx, rows.count(state)-1); err != nil {
				return err
			}
		case rowEdit:
			idx, err := e.pickRow(ctx, rows)
			if err != nil {
				return err
			}
			if err := rows.edit(ctx, idx); err != nil {
				return err
			}
		case rowRemove:
			if rows.count(e.store.State()) <= rows.floor {
				if err := e.fail(ctx, e.t("tui.row.floor")); err != nil {
					return err
				}
				continue
			}
			idx, err := e.pickRow(ctx, rows)
			if err != nil {
				return err
			}
			e.store.Mutate(rows.remove(idx))
		default:
			return nil
		}
	}
}

func (e *Editor) pickRow(ctx context.Context, rows rowSet) (int, error) {
	state := e.store.State()
	n := rows.count(state)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%d. %s", i+1, rows.label(state, i))
	}
	return e.driver.Select(ctx, SelectConfig{Message: e.t("tui.row.pick"), Options: labels})
}

func (e *Editor) proposerRows() rowSet {
	return rowSet{
		floor: proposal.MinProposers,
		count: func(s proposal.FormState) int { return len(s.Proposers) },
		label: func(s proposal.FormState, i int) string {
			return validation.ProposerLabel(e.localizer(), s.Proposers[i], i)
		},
		add:    proposal.AddProposer(),
		remove: proposal.RemoveProposer,
		edit:   e.editProposer,
	}
}

func (e *Editor) editProposer(ctx context.Context, idx int) error {
	state := e.store.State()
	if idx < 0 || idx >= len(state.Proposers) {
		return nil
	}
	row := state.Proposers[idx]

	roles := []proposal.Role{proposal.RoleSecretary, proposal.RoleMember}
	labels := make([]string, len(roles))
	current := -1
	for i, role := range roles {
		labels[i] = validation.RoleLabel(e.localizer(), role)
		if row.Role == role {
			current = i
		}
	}
	choice, err := e.driver.Select(ctx, SelectConfig{
		Message:      e.t("doc.col.role"),
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if choice >= 0 && choice < len(roles) {
		e.store.Mutate(proposal.UpdateProposer(idx, proposal.PersonRole, string(roles[choice])))
	}

	fields := []struct {
		key   string
		field proposal.PersonField
		value string
	}{
		{"doc.col.name", proposal.PersonName, row.Name},
		{"doc.col.affiliation", proposal.PersonAffiliation, row.Affiliation},
		{"doc.col.email", proposal.PersonEmail, row.Email},
	}
	for _, f := range fields {
		field := f.field
		if err := e.input(ctx, e.t(f.key), f.value, "", func(v string) proposal.Updater {
			return proposal.UpdateProposer(idx, field, v)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) questionRows() rowSet {
	return rowSet{
		floor: proposal.MinQuestions,
		count: func(s proposal.FormState) int { return len(s.Questions) },
		label: func(s proposal.FormState, i int) string {
			return summarize(s.Questions[i], e.t("tui.question", i+1))
		},
		add:    proposal.AddQuestion(),
		remove: proposal.RemoveQuestion,
		edit: func(ctx context.Context, idx int) error {
			state := e.store.State()
			if idx < 0 || idx >= len(state.Questions) {
				return nil
			}
			return e.input(ctx, e.t("tui.question", idx+1), state.Questions[idx], "", func(v string) proposal.Updater {
				return proposal.UpdateQuestion(idx, v)
			})
		},
	}
}

func (e *Editor) scheduleRows() rowSet {
	return rowSet{
		floor: proposal.MinSchedule,
		count: func(s proposal.FormState) int { return len(s.Schedule) },
		label: func(s proposal.FormState, i int) string {
			row := s.Schedule[i]
			return summarize(strings.TrimSpace(row.Month+" "+row.Activities), e.t("tui.col.month"))
		},
		add:    proposal.AddScheduleEntry(),
		remove: proposal.RemoveScheduleEntry,
		edit:   e.editSchedule,
	}
}

func (e *Editor) editSchedule(ctx context.Context, idx int) error {
	state := e.store.State()
	if idx < 0 || idx >= len(state.Schedule) {
		return nil
	}
	row := state.Schedule[idx]
	if err := e.input(ctx, e.t("tui.col.month"), row.Month, "", func(v string) proposal.Updater {
		return proposal.UpdateSchedule(idx, proposal.ScheduleMonth, v)
	}); err != nil {
		return err
	}
	month := e.store.State().Schedule[idx].Month
	return e.input(ctx, e.t("tui.col.activities"), row.Activities, proposal.ActivityPlaceholder(month), func(v string) proposal.Updater {
		return proposal.UpdateSchedule(idx, proposal.ScheduleActivities, v)
	})
}

// summarize shortens row text for the pick list, falling back when blank.
func summarize(text, fallback string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	runes := []rune(text)
	if len(runes) > 40 {
		return string(runes[:40]) + "…"
	}
	return text
}
