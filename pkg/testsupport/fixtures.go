// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sigform/pkg/proposal"
)

// ValidForm returns the smallest form that passes every validation rule.
func ValidForm() proposal.FormState {
	state := proposal.Default()
	state.SubmissionDate = "2026-04-01"
	state.SigNameJa = "教育システム情報学"
	state.SigNameEn = "Information and Systems in Education"
	state.SigAbbreviation = "EISE"
	state.LeadSecretary = proposal.Person{Name: "山田太郎", Affiliation: "〇〇大学", Email: "yamada@example.ac.jp"}
	state.Proposers = []proposal.Proposer{
		{Role: proposal.RoleSecretary, Name: "佐藤花子", Affiliation: "△△大学", Email: "sato@example.ac.jp"},
		{Role: proposal.RoleMember, Name: "鈴木一郎", Affiliation: "□□大学"},
	}
	state.Overview = "研究テーマの概要"
	state.Questions = []string{"教育システムの設計において考慮すべき主要な要因は何か？"}
	state.ExpectedEffects = "期待される効果"
	state.FirstClassPromotion = proposal.PromotionOptOut
	state.PlannedSessions = proposal.PlannedSessions{Spring: true}
	state.SessionDetails = proposal.SessionDetails{
		Target:     proposal.DefaultSessions.Label(proposal.SessionSpring),
		Name:       "教育システム情報学の展望と課題",
		Overview:   "セッションの概要",
		Keywords:   "学習支援, 評価",
		Presenters: "山田太郎, 佐藤花子, 鈴木一郎",
	}
	state.Schedule = []proposal.ScheduleEntry{{Month: "4月", Activities: "キックオフ"}}
	return state
}

// Diff returns a go-cmp diff between two values.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
