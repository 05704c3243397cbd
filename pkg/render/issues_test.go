package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sigform/pkg/render"
	"github.com/goliatone/go-sigform/pkg/validation"
)

func TestMapIssues_GroupsBySection(t *testing.T) {
	issues := []validation.Issue{
		{Rule: validation.RuleSigNameJa, Field: "sigNameJa", Message: "ja missing"},
		{Rule: validation.RuleLeadName, Field: "leadSecretary.name", Message: "lead missing"},
		{Rule: validation.RuleProposerName, Field: "proposers.1.name", Message: " proposer missing "},
		{Rule: validation.RuleDetailTarget, Field: "/sessionDetails/target", Message: "target missing"},
		{Rule: validation.RuleSessions, Field: "plannedSessions", Message: "target missing"},
		{Rule: "custom", Field: "", Message: "form level"},
	}

	got := render.MapIssues(issues)

	want := render.IssueMapping{
		Sections: map[string][]string{
			render.SectionNames:     {"ja missing"},
			render.SectionProposers: {"lead missing", "proposer missing"},
			render.SectionSessions:  {"target missing"},
		},
		Form: []string{"form level"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionOf(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"schedule", render.SectionSchedule},
		{"#/questions/0", render.SectionQuestions},
		{"firstClassPromotion", render.SectionPromotion},
		{"expectedEffects", render.SectionEffects},
		{"unknown.path", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := render.SectionOf(tc.path); got != tc.want {
			t.Errorf("SectionOf(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	registry, err := render.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected lookup error")
	}
	if registry.Has("missing") || len(registry.List()) != 0 {
		t.Fatalf("expected empty registry")
	}
}
