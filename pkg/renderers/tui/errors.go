package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoStore is returned when the editor has no form store.
	ErrNoStore = errors.New("tui: form store is required")
)
