package proposal

// DefaultScheduleMonths seeds the schedule table of a fresh form.
var DefaultScheduleMonths = []string{"4月", "6月", "9月", "12月", "3月"}

// Default returns the empty form a new session starts with.
func Default() FormState {
	schedule := make([]ScheduleEntry, 0, len(DefaultScheduleMonths))
	for _, month := range DefaultScheduleMonths {
		schedule = append(schedule, ScheduleEntry{Month: month})
	}
	return FormState{
		Proposers: []Proposer{
			{Role: RoleSecretary},
			{Role: RoleSecretary},
		},
		Questions: []string{""},
		Schedule:  schedule,
	}
}

// Clone returns a deep copy of s.
func (s FormState) Clone() FormState {
	out := s
	out.Proposers = cloneSlice(s.Proposers)
	out.Questions = cloneSlice(s.Questions)
	out.Schedule = cloneSlice(s.Schedule)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Normalize pads the repeated-row collections up to their structural
// minimums. Imported snapshots may omit rows entirely.
func (s FormState) Normalize() FormState {
	out := s.Clone()
	for len(out.Proposers) < MinProposers {
		out.Proposers = append(out.Proposers, Proposer{Role: RoleSecretary})
	}
	for len(out.Questions) < MinQuestions {
		out.Questions = append(out.Questions, "")
	}
	for len(out.Schedule) < MinSchedule {
		out.Schedule = append(out.Schedule, ScheduleEntry{})
	}
	return out
}
