package render

import (
	"strings"

	"github.com/goliatone/go-sigform/pkg/validation"
)

// Section identifiers follow the printed layout.
const (
	SectionDate      = "date"
	SectionNames     = "names"
	SectionProposers = "proposers"
	SectionOverview  = "overview"
	SectionQuestions = "questions"
	SectionEffects   = "effects"
	SectionPromotion = "promotion"
	SectionSessions  = "sessions"
	SectionSchedule  = "schedule"
)

// Sections lists the section identifiers in print order.
func Sections() []string {
	return []string{
		SectionDate,
		SectionNames,
		SectionProposers,
		SectionOverview,
		SectionQuestions,
		SectionEffects,
		SectionPromotion,
		SectionSessions,
		SectionSchedule,
	}
}

var sectionByField = map[string]string{
	"submissionDate":      SectionDate,
	"sigNameJa":           SectionNames,
	"sigNameEn":           SectionNames,
	"sigAbbreviation":     SectionNames,
	"leadSecretary":       SectionProposers,
	"proposers":           SectionProposers,
	"overview":            SectionOverview,
	"questions":           SectionQuestions,
	"expectedEffects":     SectionEffects,
	"firstClassPromotion": SectionPromotion,
	"plannedSessions":     SectionSessions,
	"sessionDetails":      SectionSessions,
	"schedule":            SectionSchedule,
}

// SectionOf maps a dotted or JSON-pointer field path onto its print section.
// Unknown paths return "".
func SectionOf(path string) string {
	segments := parsePathSegments(path)
	if len(segments) == 0 {
		return ""
	}
	return sectionByField[segments[0]]
}

// IssueMapping splits validation issues into per-section and form-level
// messages.
type IssueMapping struct {
	Sections map[string][]string
	Form     []string
}

// MapIssues groups issues by section, keeping rule order inside each
// section and dropping duplicate messages.
func MapIssues(issues []validation.Issue) IssueMapping {
	mapping := IssueMapping{
		Sections: make(map[string][]string),
	}
	for _, issue := range issues {
		section := SectionOf(issue.Field)
		if section == "" {
			mapping.Form = append(mapping.Form, issue.Message)
			continue
		}
		mapping.Sections[section] = append(mapping.Sections[section], issue.Message)
	}

	for section, messages := range mapping.Sections {
		mapping.Sections[section] = normalizeMessages(messages)
	}
	if len(mapping.Sections) == 0 {
		mapping.Sections = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") {
		clean = strings.TrimLeft(clean, "#/.")
	}
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}
