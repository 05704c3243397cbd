package store

import "github.com/goliatone/go-sigform/pkg/proposal"

// EventKind tags why observers are notified.
type EventKind string

const (
	EventLoaded   EventKind = "loaded"
	EventMutated  EventKind = "mutated"
	EventImported EventKind = "imported"
	EventCleared  EventKind = "cleared"
)

// Event carries the state after a change. State is a private copy.
type Event struct {
	Kind  EventKind
	State proposal.FormState
}

// Observer receives store events synchronously, in subscription order.
type Observer func(Event)

// Diagnostic describes a non-fatal problem the store recovered from.
type Diagnostic struct {
	Op  string
	Key string
	Err error
}

// DiagnosticHandler receives diagnostics. It must not block.
type DiagnosticHandler func(Diagnostic)
