package proposal

// Field names a scalar field of FormState.
type Field string

const (
	FieldSubmissionDate      Field = "submissionDate"
	FieldSigNameJa           Field = "sigNameJa"
	FieldSigNameEn           Field = "sigNameEn"
	FieldSigAbbreviation     Field = "sigAbbreviation"
	FieldOverview            Field = "overview"
	FieldExpectedEffects     Field = "expectedEffects"
	FieldFirstClassPromotion Field = "firstClassPromotion"
)

// PersonField names a column of a person or proposer row.
type PersonField string

const (
	PersonName        PersonField = "name"
	PersonAffiliation PersonField = "affiliation"
	PersonEmail       PersonField = "email"
	PersonRole        PersonField = "role"
)

// DetailField names a field of SessionDetails.
type DetailField string

const (
	DetailTarget     DetailField = "target"
	DetailName       DetailField = "name"
	DetailOverview   DetailField = "overview"
	DetailKeywords   DetailField = "keywords"
	DetailPresenters DetailField = "presenters"
)

// ScheduleField names a column of the schedule table.
type ScheduleField string

const (
	ScheduleMonth      ScheduleField = "month"
	ScheduleActivities ScheduleField = "activities"
)

// Apply runs updaters in order over a copy of s.
func Apply(s FormState, updaters ...Updater) FormState {
	out := s.Clone()
	for _, update := range updaters {
		if update == nil {
			continue
		}
		out = update(out)
	}
	return out
}

// SetField replaces a scalar field. The abbreviation is sanitized on the way
// in so invalid characters are never stored.
func SetField(field Field, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		switch field {
		case FieldSubmissionDate:
			out.SubmissionDate = value
		case FieldSigNameJa:
			out.SigNameJa = value
		case FieldSigNameEn:
			out.SigNameEn = value
		case FieldSigAbbreviation:
			out.SigAbbreviation = SanitizeAbbreviation(value)
		case FieldOverview:
			out.Overview = value
		case FieldExpectedEffects:
			out.ExpectedEffects = value
		case FieldFirstClassPromotion:
			out.FirstClassPromotion = Promotion(value)
		}
		return out
	}
}

// SetLeadSecretary replaces one field of the lead secretary.
func SetLeadSecretary(field PersonField, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		switch field {
		case PersonName:
			out.LeadSecretary.Name = value
		case PersonAffiliation:
			out.LeadSecretary.Affiliation = value
		case PersonEmail:
			out.LeadSecretary.Email = value
		}
		return out
	}
}

// SetSessionDetail replaces one field of the session detail record.
func SetSessionDetail(field DetailField, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		switch field {
		case DetailTarget:
			out.SessionDetails.Target = value
		case DetailName:
			out.SessionDetails.Name = value
		case DetailOverview:
			out.SessionDetails.Overview = value
		case DetailKeywords:
			out.SessionDetails.Keywords = value
		case DetailPresenters:
			out.SessionDetails.Presenters = value
		}
		return out
	}
}

// ToggleSession flips one planned-session flag.
func ToggleSession(key SessionKey) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.PlannedSessions = out.PlannedSessions.Set(key, !out.PlannedSessions.Get(key))
		return out
	}
}

// SetSession sets one planned-session flag.
func SetSession(key SessionKey, value bool) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.PlannedSessions = out.PlannedSessions.Set(key, value)
		return out
	}
}

// AddProposer appends a member row.
func AddProposer() Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Proposers = append(out.Proposers, Proposer{Role: RoleMember})
		return out
	}
}

// UpdateProposer replaces one field of the proposer at index. Out of range
// indices leave the state unchanged.
func UpdateProposer(index int, field PersonField, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		if index < 0 || index >= len(out.Proposers) {
			return out
		}
		row := out.Proposers[index]
		switch field {
		case PersonRole:
			row.Role = Role(value)
		case PersonName:
			row.Name = value
		case PersonAffiliation:
			row.Affiliation = value
		case PersonEmail:
			row.Email = value
		}
		out.Proposers[index] = row
		return out
	}
}

// RemoveProposer drops the row at index unless the roster is at its floor.
func RemoveProposer(index int) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Proposers = removeAt(out.Proposers, index, MinProposers)
		return out
	}
}

// AddQuestion appends an empty question.
func AddQuestion() Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Questions = append(out.Questions, "")
		return out
	}
}

// UpdateQuestion replaces the question at index.
func UpdateQuestion(index int, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		if index >= 0 && index < len(out.Questions) {
			out.Questions[index] = value
		}
		return out
	}
}

// RemoveQuestion drops the question at index unless only one remains.
func RemoveQuestion(index int) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Questions = removeAt(out.Questions, index, MinQuestions)
		return out
	}
}

// AddScheduleEntry appends an empty schedule row.
func AddScheduleEntry() Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Schedule = append(out.Schedule, ScheduleEntry{})
		return out
	}
}

// UpdateSchedule replaces one column of the schedule row at index.
func UpdateSchedule(index int, field ScheduleField, value string) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		if index < 0 || index >= len(out.Schedule) {
			return out
		}
		switch field {
		case ScheduleMonth:
			out.Schedule[index].Month = value
		case ScheduleActivities:
			out.Schedule[index].Activities = value
		}
		return out
	}
}

// RemoveScheduleEntry drops the schedule row at index unless only one remains.
func RemoveScheduleEntry(index int) Updater {
	return func(s FormState) FormState {
		out := s.Clone()
		out.Schedule = removeAt(out.Schedule, index, MinSchedule)
		return out
	}
}

func removeAt[T any](rows []T, index, floor int) []T {
	if len(rows) <= floor || index < 0 || index >= len(rows) {
		return rows
	}
	out := make([]T, 0, len(rows)-1)
	out = append(out, rows[:index]...)
	return append(out, rows[index+1:]...)
}
