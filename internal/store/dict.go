package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/record"
)

// ReplaceError reports a replace-all that failed partway. Local state is an
// indeterminate union of old and new records until the forced refetch that
// always follows; callers must treat replace-all as best-effort.
type ReplaceError struct {
	Scope   string
	Deleted int
	Created int
	Err     error
}

// Error implements the error interface.
func (e *ReplaceError) Error() string {
	return fmt.Sprintf("replace-all for scope %q incomplete (deleted %d, created %d): %v",
		e.Scope, e.Deleted, e.Created, e.Err)
}

// Unwrap exposes the first underlying remote failure.
func (e *ReplaceError) Unwrap() error { return e.Err }

// DictStore is the store for the one dictionary-like entity: the
// client-scoped variable set (key→label) used by document generation.
//
// Beyond the regular store operations it supports ReplaceAll, a destructive
// scope-aware re-seeding.
type DictStore struct {
	*Store[record.Variable]
}

// NewDictStore creates the variables store. Failed updates revert and
// refetch: a wrong key in an identifier-keyed dictionary is worse than a
// slow one.
func NewDictStore(remote Remote[record.Variable], def catalog.Collection, opts ...Option[record.Variable]) *DictStore {
	base := []Option[record.Variable]{WithUpdatePolicy[record.Variable](RevertAndRefetch)}
	return &DictStore{Store: New(remote, def, append(base, opts...)...)}
}

// ReplaceAll deletes every record in scope, creates every replacement, then
// refetches.
//
// NOT transactional: a failure partway leaves local state in an
// indeterminate union of old and new records until the final refetch
// reconciles it. The first remote failure is remembered and surfaced as a
// ReplaceError; the forced refetch always runs and is the only consistency
// guarantee.
func (d *DictStore) ReplaceAll(ctx context.Context, scope string, replacements []record.Variable) error {
	// Make sure the in-memory set is the one for the requested scope
	// before deleting anything.
	if d.Scope() != scope || len(d.Items()) == 0 {
		if err := d.FetchByScope(ctx, scope); err != nil {
			return err
		}
	}

	var firstErr error
	deleted, created := 0, 0

	for _, existing := range d.Items() {
		if err := d.Remove(ctx, existing.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}

	for _, replacement := range replacements {
		replacement.ClientCode = scope
		if _, err := d.Add(ctx, replacement); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created++
	}

	// Forced refetch, even after failures: whatever the remote now holds
	// is the truth.
	if err := d.FetchByScope(ctx, scope); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr != nil {
		rerr := &ReplaceError{Scope: scope, Deleted: deleted, Created: created, Err: firstErr}
		d.mu.Lock()
		d.lastErr = rerr
		d.mu.Unlock()
		slog.Debug("replace-all incomplete",
			"store", d.name,
			"scope", scope,
			"deleted", deleted,
			"created", created,
			"error", firstErr,
		)
		return rerr
	}
	return nil
}
