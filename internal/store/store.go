package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/record"
)

// Remote is the narrow contract a store needs from the Entity Collection
// Proxy. Implemented by remote.Collection (production) and
// testutil.FakeCollection (tests).
type Remote[T record.Of[T]] interface {
	List(ctx context.Context, scope string) ([]T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id string, payload map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// UpdatePolicy decides how a failed optimistic update reconciles.
type UpdatePolicy int

const (
	// ReplaceInPlace leaves the optimistic value in local state and
	// surfaces the error. Used for free-text fields where responsiveness
	// matters more than exactness.
	ReplaceInPlace UpdatePolicy = iota

	// RevertAndRefetch restores the pre-mutation snapshot and refetches
	// the current scope. Used for identifier-keyed dictionaries where
	// correctness matters more than responsiveness.
	RevertAndRefetch
)

// Store holds the in-memory ordered collection for one domain entity.
//
// Invariants:
//   - items always corresponds to the most recently requested scope key,
//     or is empty if none was requested
//   - at most one record references a given temporary identifier at a time
//   - the error slot holds only the last failure; it is cleared at the
//     start of every operation
//
// Concurrency: one in-flight mutation per logical record is assumed.
// Overlapping mutations on the same record are not sequenced - the last
// resolution wins.
type Store[T record.Of[T]] struct {
	name    string
	remote  Remote[T]
	ids     IDSource
	def     catalog.Collection
	policy  UpdatePolicy
	epochs  Clock

	mu        sync.Mutex
	items     []T
	loading   bool
	lastErr   error
	scope     string
	mutations map[string]*Mutation
}

// Option configures a Store.
type Option[T record.Of[T]] func(*Store[T])

// WithIDSource overrides the temporary-identifier source. Used in tests.
func WithIDSource[T record.Of[T]](ids IDSource) Option[T] {
	return func(s *Store[T]) {
		s.ids = ids
	}
}

// WithUpdatePolicy overrides the reconciliation policy for failed updates.
func WithUpdatePolicy[T record.Of[T]](p UpdatePolicy) Option[T] {
	return func(s *Store[T]) {
		s.policy = p
	}
}

// New creates a store over a remote collection. The catalog declaration
// supplies the ordering policy for optimistic creates.
func New[T record.Of[T]](remote Remote[T], def catalog.Collection, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:      def.Name,
		remote:    remote,
		ids:       UUIDv7Source{},
		def:       def,
		policy:    ReplaceInPlace,
		items:     []T{},
		mutations: make(map[string]*Mutation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items returns a copy of the current ordered collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last operation failure, or nil. The slot is overwritten
// by each new failure and cleared at the start of each new operation.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Scope returns the most recently requested scope key.
func (s *Store[T]) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Mutation returns the state-machine entry for a temporary identifier, or
// nil if none was issued.
func (s *Store[T]) Mutation(tempID string) *Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mutations[tempID]; ok {
		copied := *m
		return &copied
	}
	return nil
}

// Fetch loads an unscoped collection. Equivalent to FetchByScope("").
func (s *Store[T]) Fetch(ctx context.Context) error {
	return s.FetchByScope(ctx, "")
}

// FetchByScope discards local state and loads the records for a scope key.
//
// The fetch is epoch-guarded: if another fetch is requested before this
// one's response commits, the stale response is discarded silently. This is
// what keeps a slow response for scope "A" from overwriting scope "B".
func (s *Store[T]) FetchByScope(ctx context.Context, scope string) error {
	s.mu.Lock()
	s.lastErr = nil
	s.loading = true
	s.scope = scope
	epoch := s.epochs.Next()
	s.mu.Unlock()

	items, err := s.remote.List(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.epochs.Current(); current != epoch {
		// A newer fetch owns the store now. Never commit stale data.
		slog.Debug("stale fetch discarded",
			"store", s.name,
			"scope", scope,
			"epoch", epoch,
			"current", current,
		)
		return nil
	}

	s.loading = false
	if err != nil {
		s.lastErr = err
		s.items = []T{}
		return err
	}

	s.items = items
	return nil
}

// Add optimistically inserts a record under a temporary identifier, then
// issues the remote create.
//
// On success the provisional record (matched by its temporary identifier)
// is replaced in place by the server-confirmed record - its position in the
// ordered collection is preserved, not re-sorted. On failure the
// provisional record is removed and the error surfaced.
func (s *Store[T]) Add(ctx context.Context, payload T) (T, error) {
	var zero T

	s.mu.Lock()
	s.lastErr = nil
	tempID := s.ids.TempID()
	provisional := payload.WithID(tempID).Normalized()
	if s.def.Ordering == catalog.OrderingPrepend {
		s.items = append([]T{provisional}, s.items...)
	} else {
		s.items = append(s.items, provisional)
	}
	s.mutations[tempID] = &Mutation{TempID: tempID, Phase: MutationPending}
	s.mu.Unlock()

	confirmed, err := s.remote.Create(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mutations[tempID]
	if err != nil {
		m.Phase = MutationFailed
		s.removeLocked(tempID)
		s.lastErr = err
		slog.Debug("optimistic create rolled back", "store", s.name, "temp_id", tempID, "error", err)
		return zero, err
	}

	m.Phase = MutationConfirmed
	m.RealID = confirmed.RecordID()
	if !s.replaceLocked(tempID, confirmed) {
		// The provisional record was removed while the create was in
		// flight. Last resolution wins: drop the confirmation.
		slog.Debug("confirmed create had no provisional record", "store", s.name, "temp_id", tempID)
	}
	return confirmed, nil
}

// Update optimistically applies a local patch, then issues the remote
// update with the partial payload.
//
// apply produces the optimistic record from the current one. On success the
// server-confirmed record replaces the optimistic one. On failure the
// configured UpdatePolicy decides: keep the optimistic value
// (ReplaceInPlace) or restore the pre-mutation snapshot and refetch the
// scope (RevertAndRefetch). Either way the error is surfaced.
func (s *Store[T]) Update(ctx context.Context, id string, apply func(T) T, payload map[string]any) (T, error) {
	var zero T

	s.mu.Lock()
	s.lastErr = nil
	idx := s.indexLocked(id)
	had := idx >= 0
	var snapshot T
	if had {
		snapshot = s.items[idx]
		s.items[idx] = apply(snapshot).Normalized()
	}
	s.mu.Unlock()

	confirmed, err := s.remote.Update(ctx, id, payload)

	s.mu.Lock()

	if err != nil {
		s.lastErr = err
		if s.policy == RevertAndRefetch {
			if i := s.indexLocked(id); had && i >= 0 {
				s.items[i] = snapshot
			}
			scope := s.scope
			s.mu.Unlock()
			// Best-effort reconciliation; the fetch result is what counts.
			if ferr := s.FetchByScope(ctx, scope); ferr != nil {
				slog.Debug("revert refetch failed", "store", s.name, "scope", scope, "error", ferr)
			}
			s.mu.Lock()
			// Refetch cleared the slot; the update failure is what callers
			// must see.
			s.lastErr = err
		}
		s.mu.Unlock()
		return zero, err
	}

	if i := s.indexLocked(id); i >= 0 {
		s.items[i] = confirmed
	}
	s.mu.Unlock()
	return confirmed, nil
}

// Remove optimistically deletes a record, then issues the remote delete.
//
// On failure the record is not restored; the error is surfaced and a manual
// refetch is the recovery path.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	s.lastErr = nil
	s.removeLocked(id)
	s.mu.Unlock()

	if IsTempID(id) {
		// The record never existed remotely; nothing to delete.
		return nil
	}

	err := s.remote.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	return nil
}

// indexLocked returns the position of a record ID, or -1.
// Caller must hold s.mu.
func (s *Store[T]) indexLocked(id string) int {
	for i, item := range s.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

// replaceLocked swaps the record with the given ID, preserving position.
// Caller must hold s.mu.
func (s *Store[T]) replaceLocked(id string, replacement T) bool {
	if i := s.indexLocked(id); i >= 0 {
		s.items[i] = replacement
		return true
	}
	return false
}

// removeLocked drops the record with the given ID, preserving order.
// Caller must hold s.mu.
func (s *Store[T]) removeLocked(id string) bool {
	if i := s.indexLocked(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true
	}
	return false
}
