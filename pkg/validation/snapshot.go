package validation

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed snapshot_schema.yaml
var snapshotSchemaDoc []byte

// SnapshotSchemaName is the component describing a full form snapshot.
const SnapshotSchemaName = "FormState"

// SchemaIssue represents a snapshot shape error with optional location
// metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of a snapshot shape check.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// SnapshotSchema checks raw snapshot documents against the OpenAPI component
// describing FormState. Imports are permissive by default; this is the opt-in
// strict gate.
type SnapshotSchema struct {
	schema *openapi3.Schema
}

var (
	defaultSchemaOnce sync.Once
	defaultSchema     *SnapshotSchema
	defaultSchemaErr  error
)

// DefaultSnapshotSchema returns the schema built from the embedded document.
func DefaultSnapshotSchema() (*SnapshotSchema, error) {
	defaultSchemaOnce.Do(func() {
		defaultSchema, defaultSchemaErr = LoadSnapshotSchema(context.Background(), snapshotSchemaDoc)
	})
	return defaultSchema, defaultSchemaErr
}

// LoadSnapshotSchema parses an OpenAPI 3 document (JSON or YAML) and selects
// the FormState component.
func LoadSnapshotSchema(ctx context.Context, doc []byte) (*SnapshotSchema, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("validation: load snapshot schema: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validation: invalid snapshot schema: %w", err)
	}
	if spec.Components == nil {
		return nil, errors.New("validation: snapshot schema has no components")
	}
	ref, ok := spec.Components.Schemas[SnapshotSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("validation: snapshot schema component %q not found", SnapshotSchemaName)
	}
	return &SnapshotSchema{schema: ref.Value}, nil
}

// Validate checks a raw JSON snapshot.
func (s *SnapshotSchema) Validate(raw []byte) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}
		return result
	}
	if s == nil || s.schema == nil {
		return result
	}

	err := s.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return result
	}

	result.Valid = false
	result.Issues = issuesFromError(err)
	return result
}

// Err converts a failed result into an error.
func (r SchemaValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field != "" {
			msgs = append(msgs, issue.Field+": "+issue.Message)
			continue
		}
		msgs = append(msgs, issue.Message)
	}
	return fmt.Errorf("validation: snapshot does not match schema: %s", strings.Join(msgs, "; "))
}

func issuesFromError(err error) []SchemaIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []SchemaIssue
		for _, inner := range multi {
			out = append(out, issuesFromError(inner)...)
		}
		return out
	}
	return []SchemaIssue{issueFromError(err)}
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Message: "unknown error"}
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		path := "/" + strings.Join(escapePointer(pointer), "/")
		if len(pointer) == 0 {
			path = ""
		}
		msg := strings.TrimSpace(schemaErr.Reason)
		if msg == "" {
			msg = strings.TrimSpace(schemaErr.Error())
		}
		return SchemaIssue{
			Path:    path,
			Field:   fieldPathFromPointer(path),
			Message: msg,
		}
	}
	return SchemaIssue{Message: strings.TrimSpace(err.Error())}
}

func escapePointer(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		out = append(out, strings.ReplaceAll(segment, "/", "~1"))
	}
	return out
}

// fieldPathFromPointer turns "/proposers/0/email" into "proposers.0.email".
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}
