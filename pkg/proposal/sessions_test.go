package proposal

import "testing"

func TestDefaultSessions_Valid(t *testing.T) {
	if err := DefaultSessions.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if DefaultSessions.NationalLabel() != "全国大会（2026年9月12～14日）" {
		t.Fatalf("unexpected national label %q", DefaultSessions.NationalLabel())
	}
}

func TestSessionCatalog_ValidateRejectsDuplicates(t *testing.T) {
	catalog := append(SessionCatalog(nil), DefaultSessions...)
	catalog[1] = catalog[0]
	if err := catalog.Validate(); err == nil {
		t.Fatalf("expected duplicate session error")
	}
}

func TestPlannedSessions_ResearchMeetings(t *testing.T) {
	sessions := PlannedSessions{National: true, Spring: true, Special: true}
	if got := sessions.ResearchMeetings(); got != 2 {
		t.Fatalf("ResearchMeetings() = %d, want 2", got)
	}
	selected := DefaultSessions.Selected(sessions)
	if len(selected) != 3 || selected[1].Key != SessionNational || !selected[1].Flagship() {
		t.Fatalf("unexpected selection: %+v", selected)
	}
}

func TestSoftLimit_CountsRunes(t *testing.T) {
	if CharCount("研究テーマ") != 5 {
		t.Fatalf("expected rune count")
	}
	if SessionOverviewLimit.Exceeded("短い") {
		t.Fatalf("short text flagged")
	}
}

func TestActivityPlaceholder(t *testing.T) {
	if got := ActivityPlaceholder(" 9月 "); got != "例：全国大会にて企画セッション実施" {
		t.Fatalf("ActivityPlaceholder(9月) = %q", got)
	}
	if got := ActivityPlaceholder("8月"); got != "例：活動内容を入力してください" {
		t.Fatalf("ActivityPlaceholder(8月) = %q", got)
	}
}
