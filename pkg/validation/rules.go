package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-sigform/pkg/i18n"
	"github.com/goliatone/go-sigform/pkg/proposal"
)

// notSpaceOrAt matches one character that is neither whitespace (including
// full-width and other Unicode spaces) nor '@'.
const notSpaceOrAt = `[^\s\x{0B}\p{Z}\x{FEFF}@]`

var (
	emailPattern        = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)
	abbreviationPattern = regexp.MustCompile(`^[A-Za-z]{2,5}$`)
)

// ValidEmail reports whether value has the address shape the form accepts.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// ValidAbbreviation reports whether value is 2 to 5 ASCII letters.
func ValidAbbreviation(value string) bool {
	return abbreviationPattern.MatchString(value)
}

type checker struct {
	state    proposal.FormState
	sessions proposal.SessionCatalog
	loc      i18n.Localizer
	issues   []Issue
}

func (c *checker) fail(rule Rule, field string, args ...any) {
	c.issues = append(c.issues, Issue{
		Rule:    rule,
		Field:   field,
		Message: c.loc.T(rule.MessageKey(), args...),
	})
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// sections run in the order the form is laid out.
var sections = []func(*checker){
	checkSubmissionDate,
	checkNames,
	checkLeadSecretary,
	checkProposers,
	checkOverview,
	checkQuestions,
	checkExpectedEffects,
	checkPromotion,
	checkSessions,
	checkSessionDetails,
	checkSchedule,
}

func checkSubmissionDate(c *checker) {
	if c.state.SubmissionDate == "" {
		c.fail(RuleSubmissionDate, "submissionDate")
	}
}

func checkNames(c *checker) {
	if c.state.SigNameJa == "" {
		c.fail(RuleSigNameJa, "sigNameJa")
	}
	if c.state.SigNameEn == "" {
		c.fail(RuleSigNameEn, "sigNameEn")
	}
	switch abbr := c.state.SigAbbreviation; {
	case abbr == "":
		c.fail(RuleAbbreviationRequired, "sigAbbreviation")
	case !ValidAbbreviation(abbr):
		c.fail(RuleAbbreviationFormat, "sigAbbreviation")
	}
}

func checkLeadSecretary(c *checker) {
	lead := c.state.LeadSecretary
	if lead.Name == "" {
		c.fail(RuleLeadName, "leadSecretary.name")
	}
	if lead.Affiliation == "" {
		c.fail(RuleLeadAffiliation, "leadSecretary.affiliation")
	}
	switch {
	case lead.Email == "":
		c.fail(RuleLeadEmailRequired, "leadSecretary.email")
	case !ValidEmail(lead.Email):
		c.fail(RuleLeadEmailFormat, "leadSecretary.email")
	}
}

func checkProposers(c *checker) {
	for i, p := range c.state.Proposers {
		label := ProposerLabel(c.loc, p, i)
		path := fmt.Sprintf("proposers.%d", i)

		if p.Name == "" {
			c.fail(RuleProposerName, path+".name", label)
		}
		if p.Affiliation == "" {
			c.fail(RuleProposerAffiliation, path+".affiliation", label)
		}
		switch p.Role {
		case proposal.RoleSecretary:
			switch {
			case p.Email == "":
				c.fail(RuleSecretaryEmailRequired, path+".email", label)
			case !ValidEmail(p.Email):
				c.fail(RuleSecretaryEmailFormat, path+".email", label)
			}
		case proposal.RoleMember:
			if p.Email != "" && !ValidEmail(p.Email) {
				c.fail(RuleMemberEmailFormat, path+".email", label)
			}
		}
	}
}

func checkOverview(c *checker) {
	if blank(c.state.Overview) {
		c.fail(RuleOverview, "overview")
	}
}

func checkQuestions(c *checker) {
	for _, q := range c.state.Questions {
		if !blank(q) {
			return
		}
	}
	c.fail(RuleQuestions, "questions")
}

func checkExpectedEffects(c *checker) {
	if blank(c.state.ExpectedEffects) {
		c.fail(RuleExpectedEffects, "expectedEffects")
	}
}

func checkPromotion(c *checker) {
	if c.state.FirstClassPromotion == proposal.PromotionUnset {
		c.fail(RulePromotion, "firstClassPromotion")
	}
}

func checkSessions(c *checker) {
	planned := c.state.PlannedSessions
	if !planned.Any() {
		c.fail(RuleSessions, "plannedSessions")
	}
	if c.state.FirstClassPromotion != proposal.PromotionOptIn {
		return
	}
	if !planned.National {
		c.fail(RulePromotionNational, "plannedSessions.national")
	}
	if planned.ResearchMeetings() < MinResearchMeetings {
		c.fail(RulePromotionResearchMeetings, "plannedSessions", MinResearchMeetings)
	}
}

func checkSessionDetails(c *checker) {
	planned := c.state.PlannedSessions
	if !planned.Any() {
		return
	}
	details := c.state.SessionDetails
	if details.Target == "" {
		c.fail(RuleDetailTarget, "sessionDetails.target")
	}
	if planned.National && details.Target != c.sessions.NationalLabel() {
		c.fail(RuleDetailTargetNational, "sessionDetails.target")
	}
	if details.Name == "" {
		c.fail(RuleDetailName, "sessionDetails.name")
	}
	if blank(details.Overview) {
		c.fail(RuleDetailOverview, "sessionDetails.overview")
	}
	if details.Keywords == "" {
		c.fail(RuleDetailKeywords, "sessionDetails.keywords")
	}
	if details.Presenters == "" {
		c.fail(RuleDetailPresenters, "sessionDetails.presenters")
	}
}

func checkSchedule(c *checker) {
	for _, row := range c.state.Schedule {
		if row.Month != "" && row.Activities != "" {
			return
		}
	}
	c.fail(RuleSchedule, "schedule")
}

// ProposerLabel renders the human label used in proposer messages: the role
// plus the name when present, otherwise plus the 1-based row position.
func ProposerLabel(loc i18n.Localizer, p proposal.Proposer, index int) string {
	role := RoleLabel(loc, p.Role)
	if p.Name != "" {
		return loc.T("label.proposer.named", role, p.Name)
	}
	return loc.T("label.proposer.indexed", role, index+1)
}

// RoleLabel returns the display name of a role. Unknown roles are shown as
// stored.
func RoleLabel(loc i18n.Localizer, role proposal.Role) string {
	switch role {
	case proposal.RoleSecretary, proposal.RoleMember:
		return loc.T("role." + string(role))
	default:
		return string(role)
	}
}
