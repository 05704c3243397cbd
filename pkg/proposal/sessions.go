package proposal

import "fmt"

// SessionKey names one of the six planned-session flags.
type SessionKey string

const (
	SessionSpring   SessionKey = "spring"
	SessionSummer   SessionKey = "summer"
	SessionNational SessionKey = "national"
	SessionAutumn   SessionKey = "autumn"
	SessionWinter   SessionKey = "winter"
	SessionSpecial  SessionKey = "special"
)

// SessionOption pairs a session flag with its display label.
type SessionOption struct {
	Key   SessionKey `json:"key" yaml:"key"`
	Label string     `json:"label" yaml:"label"`
}

// Flagship reports whether the option is the national event rather than a
// research meeting.
func (o SessionOption) Flagship() bool {
	return o.Key == SessionNational
}

// SessionCatalog lists the sessions in display order.
type SessionCatalog []SessionOption

// DefaultSessions is the 2026 calendar.
var DefaultSessions = SessionCatalog{
	{Key: SessionSpring, Label: "春季研究会（2026年5月頃予定）"},
	{Key: SessionSummer, Label: "夏季研究会（2026年7月頃予定）"},
	{Key: SessionNational, Label: "全国大会（2026年9月12～14日）"},
	{Key: SessionAutumn, Label: "秋季研究会（2026年11月頃予定）"},
	{Key: SessionWinter, Label: "冬季研究会（2027年1月頃予定）"},
	{Key: SessionSpecial, Label: "特別研究会（2027年3月頃予定）"},
}

// SessionKeys returns every key in display order.
func SessionKeys() []SessionKey {
	return []SessionKey{SessionSpring, SessionSummer, SessionNational, SessionAutumn, SessionWinter, SessionSpecial}
}

// Label resolves the display label for key, or "" when unknown.
func (c SessionCatalog) Label(key SessionKey) string {
	for _, option := range c {
		if option.Key == key {
			return option.Label
		}
	}
	return ""
}

// NationalLabel is the label the session detail target must carry whenever
// the national session is planned.
func (c SessionCatalog) NationalLabel() string {
	return c.Label(SessionNational)
}

// Selected returns the options whose flag is set, in catalog order.
func (c SessionCatalog) Selected(sessions PlannedSessions) []SessionOption {
	var out []SessionOption
	for _, option := range c {
		if sessions.Get(option.Key) {
			out = append(out, option)
		}
	}
	return out
}

// Validate checks that the catalog names each session exactly once.
func (c SessionCatalog) Validate() error {
	seen := make(map[SessionKey]struct{}, len(c))
	for _, option := range c {
		if !knownSession(option.Key) {
			return fmt.Errorf("proposal: unknown session key %q", option.Key)
		}
		if option.Label == "" {
			return fmt.Errorf("proposal: session %q has no label", option.Key)
		}
		if _, dup := seen[option.Key]; dup {
			return fmt.Errorf("proposal: session %q listed twice", option.Key)
		}
		seen[option.Key] = struct{}{}
	}
	if len(seen) != len(SessionKeys()) {
		return fmt.Errorf("proposal: session catalog lists %d of %d sessions", len(seen), len(SessionKeys()))
	}
	return nil
}

// Get reads the flag for key.
func (p PlannedSessions) Get(key SessionKey) bool {
	switch key {
	case SessionSpring:
		return p.Spring
	case SessionSummer:
		return p.Summer
	case SessionNational:
		return p.National
	case SessionAutumn:
		return p.Autumn
	case SessionWinter:
		return p.Winter
	case SessionSpecial:
		return p.Special
	default:
		return false
	}
}

// Set returns a copy with the flag for key replaced. Unknown keys leave the
// value unchanged.
func (p PlannedSessions) Set(key SessionKey, value bool) PlannedSessions {
	switch key {
	case SessionSpring:
		p.Spring = value
	case SessionSummer:
		p.Summer = value
	case SessionNational:
		p.National = value
	case SessionAutumn:
		p.Autumn = value
	case SessionWinter:
		p.Winter = value
	case SessionSpecial:
		p.Special = value
	}
	return p
}

// Any reports whether at least one session is planned.
func (p PlannedSessions) Any() bool {
	return p.Spring || p.Summer || p.National || p.Autumn || p.Winter || p.Special
}

// ResearchMeetings counts the planned sessions other than the national event.
func (p PlannedSessions) ResearchMeetings() int {
	count := 0
	for _, flag := range []bool{p.Spring, p.Summer, p.Autumn, p.Winter, p.Special} {
		if flag {
			count++
		}
	}
	return count
}

func knownSession(key SessionKey) bool {
	for _, candidate := range SessionKeys() {
		if candidate == key {
			return true
		}
	}
	return false
}
