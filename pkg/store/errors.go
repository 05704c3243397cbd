package store

import "errors"

var (
	// ErrParse reports an import payload that is not a JSON object.
	ErrParse = errors.New("store: snapshot is not valid JSON")
	// ErrSchema reports an import rejected by the strict snapshot schema.
	ErrSchema = errors.New("store: snapshot does not match schema")
)
