// Package proposal defines the proposal form state and the pure operations
// used to edit it.
//
// FormState is a plain value. Every updater returns a new FormState whose
// slices are not shared with its input, so callers can keep previous values
// around for diffing or undo.
package proposal
