// Package testutil provides deterministic test doubles for the remote
// collection store and identifier generation.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/atelier/internal/record"
)

// FakeCollection is an in-memory stand-in for one remote collection.
// It satisfies the store.Remote contract.
//
// Failure injection: set the per-operation error fields. Sequencing: the
// OnList hook runs before a list computes its result, letting tests block a
// fetch while another one overtakes it.
type FakeCollection[T record.Of[T]] struct {
	mu      sync.Mutex
	records []T
	seq     int

	// MatchScope filters records for scoped listings. Nil returns all.
	MatchScope func(item T, scope string) bool

	// OnList, when set, is called with the requested scope before the
	// result is computed.
	OnList func(scope string)

	// ApplyPatch produces the server-confirmed record for an update. Nil
	// returns the stored record unchanged.
	ApplyPatch func(item T, patch map[string]any) T

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeCollection seeds a fake with initial records.
func NewFakeCollection[T record.Of[T]](seed ...T) *FakeCollection[T] {
	return &FakeCollection[T]{records: append([]T{}, seed...)}
}

// Records returns a copy of the fake's current contents.
func (f *FakeCollection[T]) Records() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.records))
	copy(out, f.records)
	return out
}

// List implements store.Remote.
func (f *FakeCollection[T]) List(ctx context.Context, scope string) ([]T, error) {
	if f.OnList != nil {
		f.OnList(scope)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	out := []T{}
	for _, item := range f.records {
		if f.MatchScope == nil || f.MatchScope(item, scope) {
			out = append(out, item.Normalized())
		}
	}
	return out, nil
}

// Create implements store.Remote. The payload must be the collection's
// record type; the fake assigns a server identifier "srv-N".
func (f *FakeCollection[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return zero, f.CreateErr
	}

	item, ok := payload.(T)
	if !ok {
		return zero, fmt.Errorf("fake create: unexpected payload type %T", payload)
	}

	f.seq++
	confirmed := item.WithID(fmt.Sprintf("srv-%d", f.seq)).Normalized()
	f.records = append(f.records, confirmed)
	return confirmed, nil
}

// Update implements store.Remote.
func (f *FakeCollection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return zero, f.UpdateErr
	}

	for i, item := range f.records {
		if item.RecordID() == id {
			confirmed := item
			if f.ApplyPatch != nil {
				confirmed = f.ApplyPatch(item, patch)
			}
			f.records[i] = confirmed.Normalized()
			return f.records[i], nil
		}
	}
	return zero, fmt.Errorf("fake update: no record %q", id)
}

// Delete implements store.Remote.
func (f *FakeCollection[T]) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, item := range f.records {
		if item.RecordID() == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fake delete: no record %q", id)
}
