package validation

import (
	"fmt"
	"strings"
)

// Rule identifies one row of the rule table. Identifiers are stable and safe
// to assert on; messages are localized.
type Rule string

const (
	RuleSubmissionDate            Rule = "submission_date"
	RuleSigNameJa                 Rule = "sig_name_ja"
	RuleSigNameEn                 Rule = "sig_name_en"
	RuleAbbreviationRequired      Rule = "abbreviation_required"
	RuleAbbreviationFormat        Rule = "abbreviation_format"
	RuleLeadName                  Rule = "lead_name"
	RuleLeadAffiliation           Rule = "lead_affiliation"
	RuleLeadEmailRequired         Rule = "lead_email_required"
	RuleLeadEmailFormat           Rule = "lead_email_format"
	RuleProposerName              Rule = "proposer_name"
	RuleProposerAffiliation       Rule = "proposer_affiliation"
	RuleSecretaryEmailRequired    Rule = "secretary_email_required"
	RuleSecretaryEmailFormat      Rule = "secretary_email_format"
	RuleMemberEmailFormat         Rule = "member_email_format"
	RuleOverview                  Rule = "overview"
	RuleQuestions                 Rule = "questions"
	RuleExpectedEffects           Rule = "expected_effects"
	RulePromotion                 Rule = "promotion"
	RuleSessions                  Rule = "sessions"
	RulePromotionNational         Rule = "promotion_national"
	RulePromotionResearchMeetings Rule = "promotion_research_meetings"
	RuleDetailTarget              Rule = "detail_target"
	RuleDetailTargetNational      Rule = "detail_target_national"
	RuleDetailName                Rule = "detail_name"
	RuleDetailOverview            Rule = "detail_overview"
	RuleDetailKeywords            Rule = "detail_keywords"
	RuleDetailPresenters          Rule = "detail_presenters"
	RuleSchedule                  Rule = "schedule"
)

// MessageKey is the catalog key holding the rule's message.
func (r Rule) MessageKey() string {
	return "validation." + string(r)
}

// Issue is one failed rule.
type Issue struct {
	Rule    Rule   `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result captures a validation pass. Issues keep rule evaluation order.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Messages returns the issue messages in order.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Message)
	}
	return out
}

// Rules returns the failed rule identifiers in order, repeated once per
// issue.
func (r Result) Rules() []Rule {
	out := make([]Rule, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Rule)
	}
	return out
}

// Has reports whether rule failed at least once.
func (r Result) Has(rule Rule) bool {
	for _, issue := range r.Issues {
		if issue.Rule == rule {
			return true
		}
	}
	return false
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Issues: append([]Issue(nil), r.Issues...)}
}

// Error blocks an export when the form has issues.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation: form is invalid"
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return fmt.Sprintf("validation: %d issue(s): %s", len(e.Issues), strings.Join(msgs, "; "))
}
