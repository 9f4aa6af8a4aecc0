package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/record"
	"github.com/roach88/atelier/internal/testutil"
)

func notesDef(t *testing.T) catalog.Collection {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat.MustGet(catalog.Notes)
}

func evalsDef(t *testing.T) catalog.Collection {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat.MustGet(catalog.Evaluations)
}

func noteScopeMatch(n record.Note, scope string) bool {
	return scope == "" || n.ClientCode == scope
}

func TestFetchByScope(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME", Body: "first"},
		record.Note{ID: "n2", ClientCode: "OTHER", Body: "second"},
	)
	fake.MatchScope = noteScopeMatch

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)
	assert.Equal(t, "ACME", s.Scope())
	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())
}

func TestFetchFailureYieldsEmptyAndError(t *testing.T) {
	fake := testutil.NewFakeCollection(record.Note{ID: "n1", ClientCode: "ACME"})
	fake.MatchScope = noteScopeMatch

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))
	require.Len(t, s.Items(), 1)

	fake.ListErr = errors.New("remote down")
	err := s.FetchByScope(context.Background(), "ACME")
	require.Error(t, err)
	assert.Empty(t, s.Items())
	assert.Error(t, s.Err())
}

func TestAddSuccessReplacesProvisionalInPlace(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME", Body: "existing"},
	)
	fake.MatchScope = noteScopeMatch

	s := New(fake, notesDef(t), WithIDSource[record.Note](NewFixedSource("tmp_a")))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	confirmed, err := s.Add(context.Background(), record.Note{ClientCode: "ACME", Body: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", confirmed.ID)

	items := s.Items()
	require.Len(t, items, 2)
	// Notes prepend; the confirmed record keeps the provisional position.
	assert.Equal(t, "srv-1", items[0].ID)
	assert.Equal(t, "n1", items[1].ID)

	// Exactly one record with the server ID, none with the temporary one.
	for _, item := range items {
		assert.NotEqual(t, "tmp_a", item.ID)
	}

	m := s.Mutation("tmp_a")
	require.NotNil(t, m)
	assert.Equal(t, MutationConfirmed, m.Phase)
	assert.Equal(t, "srv-1", m.RealID)
}

func TestAddFailureRollsBackProvisional(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME"},
	)
	fake.MatchScope = noteScopeMatch
	fake.CreateErr = errors.New("rejected")

	s := New(fake, notesDef(t), WithIDSource[record.Note](NewFixedSource("tmp_a")))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	_, err := s.Add(context.Background(), record.Note{ClientCode: "ACME", Body: "doomed"})
	require.Error(t, err)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)
	assert.Error(t, s.Err())

	m := s.Mutation("tmp_a")
	require.NotNil(t, m)
	assert.Equal(t, MutationFailed, m.Phase)
}

func TestAddAppendsForServerSortedCollections(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Evaluation{ID: "e1", Label: "Audit"},
	)

	s := New[record.Evaluation](fake, evalsDef(t))
	require.NoError(t, s.Fetch(context.Background()))

	_, err := s.Add(context.Background(), record.Evaluation{Label: "Zoning"})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	// No local re-sort: the create lands at the end until the next fetch.
	assert.Equal(t, "e1", items[0].ID)
	assert.Equal(t, "srv-1", items[1].ID)
}

func TestUpdateReplaceInPlaceKeepsOptimisticOnFailure(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME", Body: "before"},
	)
	fake.MatchScope = noteScopeMatch
	fake.UpdateErr = errors.New("rejected")

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	_, err := s.Update(context.Background(), "n1",
		func(n record.Note) record.Note { n.Body = "after"; return n },
		map[string]any{"body": "after"},
	)
	require.Error(t, err)

	// Non-strict field: the optimistic value stays, the error surfaces.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "after", items[0].Body)
	assert.Error(t, s.Err())
}

func TestUpdateRevertAndRefetchRestoresOnFailure(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME", Body: "before"},
	)
	fake.MatchScope = noteScopeMatch
	fake.UpdateErr = errors.New("rejected")

	s := New(fake, notesDef(t), WithUpdatePolicy[record.Note](RevertAndRefetch))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	_, err := s.Update(context.Background(), "n1",
		func(n record.Note) record.Note { n.Body = "after"; return n },
		map[string]any{"body": "after"},
	)
	require.Error(t, err)

	// Strict policy: refetched server truth, update error still surfaced.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "before", items[0].Body)
	assert.Error(t, s.Err())
}

func TestUpdateSuccessReplacesWithServerRecord(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME", Body: "before"},
	)
	fake.MatchScope = noteScopeMatch
	fake.ApplyPatch = func(n record.Note, patch map[string]any) record.Note {
		if body, ok := patch["body"].(string); ok {
			n.Body = body
		}
		return n
	}

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	confirmed, err := s.Update(context.Background(), "n1",
		func(n record.Note) record.Note { n.Body = "optimistic"; return n },
		map[string]any{"body": "server-body"},
	)
	require.NoError(t, err)
	assert.Equal(t, "server-body", confirmed.Body)
	assert.Equal(t, "server-body", s.Items()[0].Body)
}

func TestRemoveFailureDoesNotRestore(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME"},
	)
	fake.MatchScope = noteScopeMatch
	fake.DeleteErr = errors.New("rejected")

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))

	err := s.Remove(context.Background(), "n1")
	require.Error(t, err)

	// The record stays gone locally; a refetch is the recovery path.
	assert.Empty(t, s.Items())
	assert.Error(t, s.Err())
}

func TestErrorSlotClearedAtStartOfOperation(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "n1", ClientCode: "ACME"},
	)
	fake.MatchScope = noteScopeMatch
	fake.DeleteErr = errors.New("rejected")

	s := New(fake, notesDef(t))
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))
	require.Error(t, s.Remove(context.Background(), "n1"))
	require.Error(t, s.Err())

	fake.DeleteErr = nil
	require.NoError(t, s.FetchByScope(context.Background(), "ACME"))
	assert.NoError(t, s.Err())
}

func TestRemoveProvisionalRecordSkipsRemote(t *testing.T) {
	fake := testutil.NewFakeCollection[record.Note]()
	fake.MatchScope = noteScopeMatch
	fake.DeleteErr = errors.New("would fail if called")

	s := New(fake, notesDef(t))
	require.NoError(t, s.Remove(context.Background(), "tmp_ghost"))
	assert.NoError(t, s.Err())
}

func TestScopeSwitchDiscardsStaleResponse(t *testing.T) {
	fake := testutil.NewFakeCollection(
		record.Note{ID: "a1", ClientCode: "A"},
		record.Note{ID: "b1", ClientCode: "B"},
	)
	fake.MatchScope = noteScopeMatch

	s := New(fake, notesDef(t))

	gate := make(chan struct{})
	staleStarted := make(chan struct{})
	fake.OnList = func(scope string) {
		if scope == "A" {
			close(staleStarted)
			<-gate // hold A's response until B has committed
		}
	}

	staleDone := make(chan struct{})
	go func() {
		defer close(staleDone)
		_ = s.FetchByScope(context.Background(), "A")
	}()

	<-staleStarted
	require.NoError(t, s.FetchByScope(context.Background(), "B"))

	close(gate)
	<-staleDone

	// A's response arrived after B was requested and must not have
	// overwritten B's data.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].ID)
	assert.Equal(t, "B", s.Scope())
}

func TestTempIDsNeverReused(t *testing.T) {
	src := UUIDv7Source{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := src.TempID()
		assert.True(t, IsTempID(id))
		assert.False(t, seen[id], "temporary identifier reused")
		seen[id] = true
	}
}
