// Package store owns the live proposal form. It loads the last saved
// snapshot, applies pure updaters, notifies observers after every change and
// handles JSON import, export and clear.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-sigform/pkg/kvstore"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// DefaultKey is the storage key holding the saved snapshot.
const DefaultKey = "sigProposalData"

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used by the default diagnostics handler.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiagnostics replaces the diagnostics handler.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(s *Store) {
		if handler != nil {
			s.diagnostics = handler
		}
	}
}

// WithSnapshotSchema enables strict import: payloads that fail the schema
// are rejected with ErrSchema.
func WithSnapshotSchema(schema *validation.SnapshotSchema) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithoutAutosave skips registering the persistence observer.
func WithoutAutosave() Option {
	return func(s *Store) {
		s.autosave = false
	}
}

// WithClock overrides the time source used for export names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the single owner of the current FormState. Methods are safe for
// concurrent use; observers run synchronously after the state is replaced.
type Store struct {
	kv          kvstore.KV
	key         string
	logger      *slog.Logger
	diagnostics DiagnosticHandler
	schema      *validation.SnapshotSchema
	autosave    bool
	now         func() time.Time

	// writeMu serializes changes with their notifications so observers see
	// events in order. Observers must not call back into Mutate, Import,
	// Load or Clear.
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   proposal.FormState

	obsMu     sync.Mutex
	observers []*observerEntry
}

type observerEntry struct {
	fn Observer
}

// New constructs a Store over kv, starting from the default form. Call Load
// to restore a saved snapshot.
func New(kv kvstore.KV, opts ...Option) *Store {
	if kv == nil {
		kv = kvstore.NewMemory()
	}
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		logger:   slog.Default(),
		autosave: true,
		now:      time.Now,
		state:    proposal.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.diagnostics == nil {
		s.diagnostics = logDiagnostics(s.logger)
	}
	if s.autosave {
		s.Subscribe(NewPersister(kv, s.key, s.diagnostics).Observe)
	}
	return s
}

func logDiagnostics(logger *slog.Logger) DiagnosticHandler {
	return func(d Diagnostic) {
		logger.Warn("store diagnostic",
			slog.String("op", d.Op),
			slog.String("key", d.Key),
			slog.Any("error", d.Err),
		)
	}
}

// Key reports the storage key.
func (s *Store) Key() string {
	return s.key
}

// Load restores the saved snapshot. A missing key, a storage failure or a
// malformed payload all leave the default form in place; the latter two are
// reported as diagnostics. Load never fails.
func (s *Store) Load(ctx context.Context) proposal.FormState {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state := proposal.Default()

	raw, ok, err := s.kv.Get(ctx, s.key)
	switch {
	case err != nil:
		s.diagnostics(Diagnostic{Op: "load", Key: s.key, Err: err})
	case ok:
		decoded, skipped, err := Decode([]byte(raw))
		if err != nil {
			s.diagnostics(Diagnostic{Op: "load", Key: s.key, Err: err})
			break
		}
		for _, fe := range skipped {
			s.diagnostics(Diagnostic{Op: "load", Key: s.key, Err: fe})
		}
		state = decoded
	}

	s.replace(state)
	s.logger.Debug("form loaded", slog.String("key", s.key), slog.Bool("found", ok))
	s.notify(Event{Kind: EventLoaded, State: state})
	return state.Clone()
}

// State returns a copy of the current form.
func (s *Store) State() proposal.FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Mutate applies updaters in order, stores the result and notifies
// observers.
func (s *Store) Mutate(updaters ...proposal.Updater) proposal.FormState {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := proposal.Apply(s.state, updaters...)
	s.state = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventMutated, State: next.Clone()})
	return next.Clone()
}

// Import replaces the form with the snapshot in raw. Parse failures return
// ErrParse, schema failures ErrSchema; either way the current form is kept.
func (s *Store) Import(raw []byte) (proposal.FormState, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.schema != nil {
		if result := s.schema.Validate(raw); !result.Valid {
			return s.State(), fmt.Errorf("%w: %v", ErrSchema, result.Err())
		}
	}

	state, skipped, err := Decode(raw)
	if err != nil {
		return s.State(), err
	}
	for _, fe := range skipped {
		s.diagnostics(Diagnostic{Op: "import", Key: s.key, Err: fe})
	}

	s.replace(state)
	s.logger.Info("form imported", slog.Int("skipped", len(skipped)))
	s.notify(Event{Kind: EventImported, State: state.Clone()})
	return state.Clone(), nil
}

// Export snapshots the current form.
func (s *Store) Export() (Snapshot, error) {
	return Export(s.State(), s.now())
}

// Clear removes the saved snapshot and resets the form to defaults. The
// in-memory reset happens even when storage removal fails.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	removeErr := s.kv.Remove(ctx, s.key)

	state := proposal.Default()
	s.replace(state)
	s.notify(Event{Kind: EventCleared, State: state.Clone()})

	if removeErr != nil {
		return fmt.Errorf("store: clear %q: %w", s.key, removeErr)
	}
	s.logger.Info("form cleared", slog.String("key", s.key))
	return nil
}

// Subscribe registers observer and returns a function that removes it.
func (s *Store) Subscribe(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	entry := &observerEntry{fn: observer}

	s.obsMu.Lock()
	s.observers = append(s.observers, entry)
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, candidate := range s.observers {
				if candidate == entry {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) replace(state proposal.FormState) {
	s.mu.Lock()
	s.state = state.Clone()
	s.mu.Unlock()
}

func (s *Store) notify(event Event) {
	s.obsMu.Lock()
	observers := make([]*observerEntry, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, entry := range observers {
		entry.fn(Event{Kind: event.Kind, State: event.State.Clone()})
	}
}

// Persister writes the snapshot to storage after mutations and imports.
type Persister struct {
	kv          kvstore.KV
	key         string
	diagnostics DiagnosticHandler
	timeout     time.Duration
}

// NewPersister returns a persister for key. Write failures go to
// diagnostics and are never returned to the caller.
func NewPersister(kv kvstore.KV, key string, diagnostics DiagnosticHandler) *Persister {
	if diagnostics == nil {
		diagnostics = logDiagnostics(slog.Default())
	}
	return &Persister{
		kv:          kv,
		key:         key,
		diagnostics: diagnostics,
		timeout:     5 * time.Second,
	}
}

// Observe is the Observer entry point.
func (p *Persister) Observe(event Event) {
	switch event.Kind {
	case EventMutated, EventImported:
	default:
		return
	}
	if err := p.Save(context.Background(), event.State); err != nil {
		p.diagnostics(Diagnostic{Op: "persist", Key: p.key, Err: err})
	}
}

// Save writes state immediately.
func (p *Persister) Save(ctx context.Context, state proposal.FormState) error {
	if p.kv == nil {
		return errors.New("store: persister has no storage")
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.kv.Set(ctx, p.key, string(data))
}
