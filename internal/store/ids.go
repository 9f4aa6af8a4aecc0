package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TempPrefix marks a locally-issued identifier as provisional. The remote
// store never assigns identifiers with this prefix.
const TempPrefix = "tmp_"

// IDSource issues temporary identifiers for optimistic creates.
// Implemented by UUIDv7Source (production) and FixedSource (tests).
type IDSource interface {
	TempID() string
}

// UUIDv7Source issues "tmp_"-prefixed UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits (the monotonic
// component) with random low bits, so identifiers are collision-resistant
// within the process lifetime and are never reused.
//
// Thread-safety: UUIDv7Source is stateless and safe for concurrent use.
type UUIDv7Source struct{}

// TempID creates a new temporary identifier.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Source) TempID() string {
	return TempPrefix + uuid.Must(uuid.NewV7()).String()
}

// IsTempID reports whether an identifier is provisional.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// FixedSource returns predetermined identifiers for testing.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedSource struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedSource creates a source that returns identifiers in order.
//
// Panics when exhausted - fail-fast to catch test misconfiguration.
func NewFixedSource(ids ...string) *FixedSource {
	return &FixedSource{ids: ids}
}

// TempID returns the next predetermined identifier.
func (f *FixedSource) TempID() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.idx >= len(f.ids) {
		panic("FixedSource: all identifiers exhausted")
	}
	id := f.ids[f.idx]
	f.idx++
	return id
}
