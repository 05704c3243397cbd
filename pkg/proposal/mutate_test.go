package proposal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeAbbreviation(t *testing.T) {
	cases := map[string]string{
		"E1i!se":   "Eise",
		"EISE":     "EISE",
		"":         "",
		"12345":    "",
		"ABCDEFGH": "ABCDE",
		"ＥＩＳＥ":     "",
		"a b-c":    "abc",
	}
	for in, want := range cases {
		if got := SanitizeAbbreviation(in); got != want {
			t.Errorf("SanitizeAbbreviation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetField_SanitizesAbbreviation(t *testing.T) {
	got := Apply(Default(), SetField(FieldSigAbbreviation, "E1i!se"))
	if got.SigAbbreviation != "Eise" {
		t.Fatalf("expected sanitized abbreviation, got %q", got.SigAbbreviation)
	}
}

func TestUpdaters_DoNotMutateInput(t *testing.T) {
	base := Default()
	before := base.Clone()

	_ = Apply(base,
		UpdateProposer(0, PersonName, "Sato"),
		UpdateQuestion(0, "Why?"),
		UpdateSchedule(0, ScheduleActivities, "Kickoff"),
		SetLeadSecretary(PersonEmail, "lead@example.org"),
		ToggleSession(SessionNational),
	)

	if diff := cmp.Diff(before, base); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestUpdateProposer_ChangesOnlyTargetRow(t *testing.T) {
	base := Apply(Default(), AddProposer())
	got := Apply(base, UpdateProposer(1, PersonAffiliation, "Univ"))

	want := base.Clone()
	want.Proposers[1].Affiliation = "Univ"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}

	unchanged := Apply(base, UpdateProposer(9, PersonName, "x"))
	if diff := cmp.Diff(base, unchanged); diff != "" {
		t.Fatalf("out of range update changed state:\n%s", diff)
	}
}

func TestRemove_RespectsFloors(t *testing.T) {
	base := Default()

	if got := Apply(base, RemoveProposer(0)); len(got.Proposers) != MinProposers {
		t.Fatalf("proposer floor not enforced: %d rows", len(got.Proposers))
	}
	if got := Apply(base, RemoveQuestion(0)); len(got.Questions) != MinQuestions {
		t.Fatalf("question floor not enforced: %d rows", len(got.Questions))
	}

	single := base
	single.Schedule = []ScheduleEntry{{Month: "4月"}}
	if got := Apply(single, RemoveScheduleEntry(0)); len(got.Schedule) != 1 {
		t.Fatalf("schedule floor not enforced: %d rows", len(got.Schedule))
	}
}

func TestRemove_AboveFloorPreservesOrder(t *testing.T) {
	base := Apply(Default(),
		AddProposer(),
		UpdateProposer(0, PersonName, "A"),
		UpdateProposer(1, PersonName, "B"),
		UpdateProposer(2, PersonName, "C"),
	)

	got := Apply(base, RemoveProposer(1))
	names := make([]string, 0, len(got.Proposers))
	for _, p := range got.Proposers {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"A", "C"}, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	schedule := Apply(Default(), RemoveScheduleEntry(0))
	months := make([]string, 0, len(schedule.Schedule))
	for _, row := range schedule.Schedule {
		months = append(months, row.Month)
	}
	if diff := cmp.Diff([]string{"6月", "9月", "12月", "3月"}, months); diff != "" {
		t.Fatalf("unexpected schedule (-want +got):\n%s", diff)
	}
}

func TestAddProposer_DefaultsToMember(t *testing.T) {
	got := Apply(Default(), AddProposer())
	if len(got.Proposers) != 3 || got.Proposers[2].Role != RoleMember {
		t.Fatalf("unexpected proposers: %+v", got.Proposers)
	}
}

func TestToggleSession(t *testing.T) {
	got := Apply(Default(), ToggleSession(SessionWinter))
	if !got.PlannedSessions.Winter {
		t.Fatalf("expected winter toggled on")
	}
	got = Apply(got, ToggleSession(SessionWinter))
	if got.PlannedSessions.Any() {
		t.Fatalf("expected all sessions off")
	}
}

func TestNormalize_PadsFloors(t *testing.T) {
	got := FormState{}.Normalize()
	if len(got.Proposers) != MinProposers || len(got.Questions) != MinQuestions || len(got.Schedule) != MinSchedule {
		t.Fatalf("floors not padded: %+v", got)
	}
}
