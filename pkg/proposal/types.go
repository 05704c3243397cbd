package proposal

// Role tags a proposer row.
type Role string

const (
	// RoleSecretary marks a co-organizer; email is mandatory.
	RoleSecretary Role = "secretary"
	// RoleMember marks a regular member; email is optional.
	RoleMember Role = "member"
)

// Promotion captures the first-class promotion answer.
type Promotion string

const (
	PromotionUnset  Promotion = ""
	PromotionOptIn  Promotion = "opt-in"
	PromotionOptOut Promotion = "opt-out"
)

// Person is the lead secretary record.
type Person struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Email       string `json:"email"`
}

// Proposer is a roster row backing the proposal.
type Proposer struct {
	Role        Role   `json:"role"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Email       string `json:"email"`
}

// PlannedSessions holds one flag per calendar event.
type PlannedSessions struct {
	Spring   bool `json:"spring"`
	Summer   bool `json:"summer"`
	National bool `json:"national"`
	Autumn   bool `json:"autumn"`
	Winter   bool `json:"winter"`
	Special  bool `json:"special"`
}

// SessionDetails describes the one planned session the proposer elaborates.
// Target stores the session label chosen from the catalog.
type SessionDetails struct {
	Target     string `json:"target"`
	Name       string `json:"name"`
	Overview   string `json:"overview"`
	Keywords   string `json:"keywords"`
	Presenters string `json:"presenters"`
}

// ScheduleEntry is one row of the yearly activity table.
type ScheduleEntry struct {
	Month      string `json:"month"`
	Activities string `json:"activities"`
}

// FormState is the root aggregate of the proposal form. JSON names match the
// snapshot format written by the export command.
type FormState struct {
	SubmissionDate      string          `json:"submissionDate"`
	SigNameJa           string          `json:"sigNameJa"`
	SigNameEn           string          `json:"sigNameEn"`
	SigAbbreviation     string          `json:"sigAbbreviation"`
	LeadSecretary       Person          `json:"leadSecretary"`
	Proposers           []Proposer      `json:"proposers"`
	Overview            string          `json:"overview"`
	Questions           []string        `json:"questions"`
	ExpectedEffects     string          `json:"expectedEffects"`
	FirstClassPromotion Promotion       `json:"firstClassPromotion"`
	PlannedSessions     PlannedSessions `json:"plannedSessions"`
	SessionDetails      SessionDetails  `json:"sessionDetails"`
	Schedule            []ScheduleEntry `json:"schedule"`
}

// Structural minimums for the repeated-row collections.
const (
	MinProposers = 2
	MinQuestions = 1
	MinSchedule  = 1
)

// Updater is a pure transformation of the form state.
type Updater func(FormState) FormState
