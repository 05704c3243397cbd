package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-sigform/pkg/proposal"
)

// SnapshotPrefix and SnapshotExt frame export file names.
const (
	SnapshotPrefix = "sig-proposal-"
	SnapshotExt    = ".json"
)

// Snapshot is an exported form: a suggested file name plus its JSON body.
type Snapshot struct {
	Filename string
	Data     []byte
}

// SnapshotFilename names an export taken at now, using the UTC calendar
// date.
func SnapshotFilename(now time.Time) string {
	return SnapshotPrefix + now.UTC().Format("2006-01-02") + SnapshotExt
}

// Encode serializes state as two-space indented JSON. HTML characters are
// written as-is.
func Encode(state proposal.FormState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return nil, fmt.Errorf("store: encode snapshot: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Export builds the snapshot of state taken at now.
func Export(state proposal.FormState, now time.Time) (Snapshot, error) {
	data, err := Encode(state)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Filename: SnapshotFilename(now), Data: data}, nil
}

// fieldDecoders maps each top-level snapshot key onto the FormState field it
// fills.
func fieldDecoders(s *proposal.FormState) map[string]func(json.RawMessage) error {
	return map[string]func(json.RawMessage) error{
		"submissionDate":      into(&s.SubmissionDate),
		"sigNameJa":           into(&s.SigNameJa),
		"sigNameEn":           into(&s.SigNameEn),
		"sigAbbreviation":     into(&s.SigAbbreviation),
		"leadSecretary":       into(&s.LeadSecretary),
		"proposers":           into(&s.Proposers),
		"overview":            into(&s.Overview),
		"questions":           into(&s.Questions),
		"expectedEffects":     into(&s.ExpectedEffects),
		"firstClassPromotion": into(&s.FirstClassPromotion),
		"plannedSessions":     into(&s.PlannedSessions),
		"sessionDetails":      into(&s.SessionDetails),
		"schedule":            into(&s.Schedule),
	}
}

// into decodes into a scratch value so target is untouched on failure.
func into[T any](target *T) func(json.RawMessage) error {
	return func(value json.RawMessage) error {
		var v T
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		*target = v
		return nil
	}
}

// FieldError names a snapshot key that was skipped during decoding.
type FieldError struct {
	Key string
	Err error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("store: field %q: %v", e.Key, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Decode merges a JSON object over the default form. Known keys replace the
// default, keys whose value has the wrong shape are skipped and reported,
// unknown keys are ignored. Collections are padded to their minimums.
// Anything other than a JSON object fails with ErrParse.
func Decode(raw []byte) (proposal.FormState, []FieldError, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return proposal.FormState{}, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if fields == nil {
		return proposal.FormState{}, nil, fmt.Errorf("%w: expected an object", ErrParse)
	}

	state := proposal.Default()
	var skipped []FieldError
	for key, decode := range fieldDecoders(&state) {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if err := decode(value); err != nil {
			skipped = append(skipped, FieldError{Key: key, Err: err})
		}
	}
	slices.SortFunc(skipped, func(a, b FieldError) int {
		return strings.Compare(a.Key, b.Key)
	})
	return state.Normalize(), skipped, nil
}
