package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sigform/pkg/kvstore"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/testsupport"
	"github.com/goliatone/go-sigform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	abort        bool
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) exhausted(kind string) error {
	if s.abort {
		return ErrAborted
	}
	return errors.New("no " + kind + " scripted")
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", s.exhausted("input")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, s.exhausted("confirm")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, s.exhausted("select")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, s.exhausted("multiselect")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", s.exhausted("textarea")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) assertConsumed(t *testing.T) {
	t.Helper()
	if s.inputPos != len(s.inputs) || s.selectPos != len(s.selectIdx) || s.multiPos != len(s.multiIdx) ||
		s.confirmPos != len(s.confirm) || s.textPos != len(s.textAreas) {
		t.Fatalf("script not fully consumed: inputs %d/%d selects %d/%d multi %d/%d confirm %d/%d text %d/%d",
			s.inputPos, len(s.inputs), s.selectPos, len(s.selectIdx), s.multiPos, len(s.multiIdx),
			s.confirmPos, len(s.confirm), s.textPos, len(s.textAreas))
	}
}

type stubPrinter struct {
	location string
	calls    int
}

func (p *stubPrinter) Print(_ context.Context, state proposal.FormState) (string, error) {
	p.calls++
	if err := validation.New(validation.WithLocale("en")).Check(state).Err(); err != nil {
		return "", err
	}
	return p.location, nil
}

func newEditor(t *testing.T, driver *stubDriver, opts ...Option) (*Editor, *store.Store) {
	t.Helper()
	st := store.New(kvstore.NewMemory())
	base := []Option{WithPromptDriver(driver), WithLocale("en")}
	editor, err := NewEditor(st, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	return editor, st
}

func replaceWith(state proposal.FormState) proposal.Updater {
	return func(proposal.FormState) proposal.FormState {
		return state
	}
}

func TestNewEditor_RequiresStore(t *testing.T) {
	if _, err := NewEditor(nil); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestEditAll_FillsValidForm(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"2026-04-01",
			"教育システム情報学", "Information and Systems in Education", "EISE",
			"山田太郎", "〇〇大学", "yamada@example.ac.jp",
			"佐藤花子", "△△大学", "sato@example.ac.jp",
			"鈴木一郎", "□□大学", "",
			"問い",
			"展望と課題", "学習支援", "山田太郎",
			"4月", "キックオフ",
		},
		selectIdx: []int{
			rowEdit, 0, 0, rowEdit, 1, 1, rowDone,
			rowEdit, 0, rowDone,
			1,
			2,
			rowEdit, 0, rowDone,
		},
		multiIdx:  [][]int{{2}},
		textAreas: []string{"概要", "効果", "セッション概要"},
	}
	editor, st := newEditor(t, driver)

	if err := editor.EditAll(context.Background()); err != nil {
		t.Fatalf("edit all: %v", err)
	}
	driver.assertConsumed(t)

	state := st.State()
	if result := validation.New().Check(state); !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Messages())
	}
	if state.Proposers[1].Role != proposal.RoleMember {
		t.Fatalf("expected second proposer to be a member, got %q", state.Proposers[1].Role)
	}
	if state.SessionDetails.Target != proposal.DefaultSessions.NationalLabel() {
		t.Fatalf("unexpected target %q", state.SessionDetails.Target)
	}
	if state.FirstClassPromotion != proposal.PromotionOptOut {
		t.Fatalf("unexpected promotion %q", state.FirstClassPromotion)
	}
	if len(driver.infoMessages) != 0 {
		t.Fatalf("unexpected messages: %v", driver.infoMessages)
	}
}

func TestEditSection_NamesSanitizesAbbreviation(t *testing.T) {
	driver := &stubDriver{inputs: []string{"名称", "Name", "e1i!SEx"}}
	editor, st := newEditor(t, driver)

	if err := editor.EditSection(context.Background(), int(sectionNames)); err != nil {
		t.Fatalf("edit names: %v", err)
	}
	if got := st.State().SigAbbreviation; got != "eiSEx" {
		t.Fatalf("expected sanitized abbreviation, got %q", got)
	}
}

func TestEditSection_EveryAnswerPersists(t *testing.T) {
	kv := kvstore.NewMemory()
	st := store.New(kv)
	driver := &stubDriver{inputs: []string{"2026-05-01"}}
	editor, err := NewEditor(st, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	if err := editor.EditSection(context.Background(), int(sectionDate)); err != nil {
		t.Fatalf("edit date: %v", err)
	}
	raw, ok, err := kv.Get(context.Background(), store.DefaultKey)
	if err != nil || !ok {
		t.Fatalf("expected saved snapshot, ok=%v err=%v", ok, err)
	}
	if !strings.Contains(raw, `"submissionDate": "2026-05-01"`) {
		t.Fatalf("snapshot missing answer: %s", raw)
	}
}

func TestEditSessions_NoneSelectedSkipsDetails(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{}}}
	editor, st := newEditor(t, driver)
	st.Mutate(proposal.SetSession(proposal.SessionSpring, true))

	if err := editor.EditSection(context.Background(), int(sectionSessions)); err != nil {
		t.Fatalf("edit sessions: %v", err)
	}
	driver.assertConsumed(t)
	if st.State().PlannedSessions.Any() {
		t.Fatalf("expected every session cleared, got %+v", st.State().PlannedSessions)
	}
}

func TestEditSection_OverviewSoftLimitWarning(t *testing.T) {
	long := strings.Repeat("あ", 600)
	driver := &stubDriver{textAreas: []string{long}}
	editor, st := newEditor(t, driver)

	if err := editor.EditSection(context.Background(), int(sectionOverview)); err != nil {
		t.Fatalf("edit overview: %v", err)
	}
	if st.State().Overview != long {
		t.Fatalf("expected long overview to be stored")
	}
	want := []string{"600 / about 500 characters"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestEditRows_FloorGuard(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{rowRemove, rowDone}}
	editor, st := newEditor(t, driver, WithTheme(Theme{ErrorPrefix: "! "}))

	if err := editor.EditSection(context.Background(), int(sectionProposers)); err != nil {
		t.Fatalf("edit proposers: %v", err)
	}
	if len(st.State().Proposers) != proposal.MinProposers {
		t.Fatalf("expected floor to hold, got %d rows", len(st.State().Proposers))
	}
	want := []string{"! Cannot remove below the minimum number of rows"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestEditRows_AddThenRemove(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"二つ目の問い"},
		selectIdx: []int{rowAdd, rowRemove, 0, rowDone},
	}
	editor, st := newEditor(t, driver)

	if err := editor.EditSection(context.Background(), int(sectionQuestions)); err != nil {
		t.Fatalf("edit questions: %v", err)
	}
	driver.assertConsumed(t)
	if diff := cmp.Diff([]string{"二つ目の問い"}, st.State().Questions); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_CheckShowsNumberedIssues(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 5}}
	editor, st := newEditor(t, driver)

	if err := editor.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	issues := validation.New(validation.WithLocale("en")).Check(st.State()).Issues
	if len(driver.infoMessages) != len(issues)+1 {
		t.Fatalf("expected header plus %d lines, got %v", len(issues), driver.infoMessages)
	}
	if want := fmt.Sprintf("Input errors (%d)", len(issues)); driver.infoMessages[0] != want {
		t.Fatalf("expected header %q, got %q", want, driver.infoMessages[0])
	}
	if want := "1. Submission date is missing"; driver.infoMessages[1] != want {
		t.Fatalf("expected %q, got %q", want, driver.infoMessages[1])
	}
}

func TestRun_CheckValidForm(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 5}}
	editor, st := newEditor(t, driver)
	st.Mutate(replaceWith(testsupport.ValidForm()))

	if err := editor.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"✓ All required fields are filled in"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_PrintGate(t *testing.T) {
	printer := &stubPrinter{location: "out/sig-proposal-EISE-2026-04-01.html"}

	t.Run("invalid", func(t *testing.T) {
		driver := &stubDriver{selectIdx: []int{2, 6}}
		editor, _ := newEditor(t, driver, WithPrinter(printer))
		if err := editor.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := driver.infoMessages[0]; got != "The form has errors. Review them before exporting." {
			t.Fatalf("unexpected header %q", got)
		}
		if !strings.HasPrefix(driver.infoMessages[1], "1. ") {
			t.Fatalf("expected numbered issue, got %q", driver.infoMessages[1])
		}
	})

	t.Run("valid", func(t *testing.T) {
		driver := &stubDriver{selectIdx: []int{2, 6}}
		editor, st := newEditor(t, driver, WithPrinter(printer))
		st.Mutate(replaceWith(testsupport.ValidForm()))
		if err := editor.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
		want := []string{"Written to out/sig-proposal-EISE-2026-04-01.html"}
		if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
			t.Fatalf("messages mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRun_ExportThenImport(t *testing.T) {
	dir := t.TempDir()
	source, st := newEditor(t, &stubDriver{selectIdx: []int{2, 5}}, WithExportDir(dir))
	st.Mutate(replaceWith(testsupport.ValidForm()))
	if err := source.Run(context.Background()); err != nil {
		t.Fatalf("export run: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "sig-proposal-*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one snapshot file, got %v (%v)", matches, err)
	}

	driver := &stubDriver{selectIdx: []int{3, 5}, inputs: []string{matches[0]}}
	target, imported := newEditor(t, driver)
	if err := target.Run(context.Background()); err != nil {
		t.Fatalf("import run: %v", err)
	}
	if diff := cmp.Diff(testsupport.ValidForm(), imported.State()); diff != "" {
		t.Fatalf("imported state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Data imported"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ImportFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	for _, path := range []string{bad, filepath.Join(dir, "missing.json")} {
		driver := &stubDriver{selectIdx: []int{3, 5}, inputs: []string{path}}
		editor, st := newEditor(t, driver)
		st.Mutate(proposal.SetField(proposal.FieldSigNameJa, "保持"))

		if err := editor.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := st.State().SigNameJa; got != "保持" {
			t.Fatalf("state changed after failed import of %s: %q", path, got)
		}
		if diff := cmp.Diff([]string{"Failed to read the file"}, driver.infoMessages); diff != "" {
			t.Fatalf("messages mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRun_ClearRequiresConfirmation(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{4, 4, 5}, confirm: []bool{false, true}}
	editor, st := newEditor(t, driver)
	st.Mutate(proposal.SetField(proposal.FieldSigNameJa, "消去対象"), proposal.AddQuestion())

	var names []string
	unsubscribe := st.Subscribe(func(event store.Event) {
		names = append(names, string(event.Kind))
	})
	defer unsubscribe()

	if err := editor.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.assertConsumed(t)
	if diff := cmp.Diff(proposal.Default(), st.State()); diff != "" {
		t.Fatalf("expected defaults after clear (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{string(store.EventCleared)}, names); diff != "" {
		t.Fatalf("expected a single clear event (-want +got):\n%s", diff)
	}
}

func TestRun_AbortPropagates(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0, int(sectionDate)}, abort: true}
	editor, st := newEditor(t, driver)
	st.Mutate(proposal.SetField(proposal.FieldSigNameEn, "kept"))

	err := editor.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if st.State().SigNameEn != "kept" {
		t.Fatalf("abort must not drop entered data")
	}
}
