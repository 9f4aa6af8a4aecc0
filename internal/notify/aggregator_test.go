package notify

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atelier/internal/record"
)

// fixedToday matches the windowing example: 2024-03-10.
func fixedToday() time.Time {
	return time.Date(2024, 3, 10, 15, 42, 7, 0, time.UTC)
}

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	state, err := OpenReadState(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { state.Close() })

	a, err := New(state, WithNow(fixedToday))
	require.NoError(t, err)
	return a
}

func fixtureClients() []record.Client {
	return []record.Client{
		{
			ID:   "c1",
			Code: "ACME",
			Name: "Acme Fabrication",
			ScheduledEmails: []record.ScheduledItem{
				{ID: "e1", Label: "Quote follow-up", Date: "2024-03-11"},
				{ID: "e2", Label: "Contract check-in", Date: "2024-03-16"},
				{ID: "e3", Label: "Beyond the window", Date: "2024-03-18"},
				{ID: "e4", Label: "Already sent", Date: "2024-03-11"},
				{ID: "e5", Label: "In the past", Date: "2024-03-09"},
			},
			DocumentRequests: []record.ScheduledItem{
				{ID: "d1", Label: "Company registration", Date: "2024-03-14"},
				{ID: "d2", Label: "Received already", Date: "2024-03-12"},
			},
			Questions: []record.ScheduledItem{
				{ID: "q1", Label: "Headcount", Date: "2024-03-17"},
			},
			SentEmailIDs:   []string{"e4"},
			ReceivedDocIDs: []string{"d2"},
		},
		{
			ID:         "c2",
			Code:       "BAST",
			Name:       "Bastide Conseil",
			Status:     record.StatusError,
			StatusDate: "2024-03-09",
		},
	}
}

func notificationIDs(ns []record.Notification) []string {
	ids := make([]string, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}

func TestWindowClassification(t *testing.T) {
	a := newTestAggregator(t)
	ns := a.Recompute(fixtureClients())

	byID := map[string]record.Notification{}
	for _, n := range ns {
		byID[n.ID] = n
	}

	t.Run("email one day out is imminent", func(t *testing.T) {
		n, ok := byID["email:c1:e1"]
		require.True(t, ok)
		assert.Equal(t, record.TierImminent, n.Tier)
	})

	t.Run("email six days out is this-week", func(t *testing.T) {
		n, ok := byID["email:c1:e2"]
		require.True(t, ok)
		assert.Equal(t, record.TierThisWeek, n.Tier)
	})

	t.Run("email beyond seven days is excluded", func(t *testing.T) {
		assert.NotContains(t, byID, "email:c1:e3")
	})

	t.Run("past email is excluded", func(t *testing.T) {
		assert.NotContains(t, byID, "email:c1:e5")
	})

	t.Run("resolved items are skipped", func(t *testing.T) {
		assert.NotContains(t, byID, "email:c1:e4")
		assert.NotContains(t, byID, "document:c1:d2")
	})

	t.Run("documents use the combined window", func(t *testing.T) {
		n, ok := byID["document:c1:d1"]
		require.True(t, ok)
		assert.Equal(t, record.TierThisWeek, n.Tier)
	})

	t.Run("error status one day in the past is included", func(t *testing.T) {
		n, ok := byID["status:c2"]
		require.True(t, ok)
		assert.Equal(t, record.TierAttention, n.Tier)
		assert.Equal(t, "c2", n.Route.ParentID)
	})
}

func TestWindowBoundaries(t *testing.T) {
	testCases := []struct {
		name     string
		date     string
		included bool
		tier     string
	}{
		{"today is imminent", "2024-03-10", true, record.TierImminent},
		{"soon boundary is imminent", "2024-03-12", true, record.TierImminent},
		{"just past soon is this-week", "2024-03-13", true, record.TierThisWeek},
		{"week boundary is this-week", "2024-03-17", true, record.TierThisWeek},
		{"past week boundary excluded", "2024-03-18", false, ""},
		{"yesterday excluded", "2024-03-09", false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAggregator(t)
			ns := a.Recompute([]record.Client{{
				ID:              "c1",
				Name:            "Acme",
				ScheduledEmails: []record.ScheduledItem{{ID: "e1", Label: "x", Date: tc.date}},
			}})

			if !tc.included {
				assert.Empty(t, ns)
				return
			}
			require.Len(t, ns, 1)
			assert.Equal(t, tc.tier, ns[0].Tier)
		})
	}
}

func TestStatusWindowBoundaries(t *testing.T) {
	testCases := []struct {
		name     string
		date     string
		included bool
	}{
		{"today included", "2024-03-10", true},
		{"seven days ago included", "2024-03-03", true},
		{"eight days ago excluded", "2024-03-02", false},
		{"tomorrow excluded", "2024-03-11", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAggregator(t)
			ns := a.Recompute([]record.Client{{
				ID: "c1", Name: "Acme", Status: record.StatusError, StatusDate: tc.date,
			}})
			if tc.included {
				assert.Len(t, ns, 1)
			} else {
				assert.Empty(t, ns)
			}
		})
	}
}

func TestUnparseableDatesSkippedSilently(t *testing.T) {
	a := newTestAggregator(t)
	ns := a.Recompute([]record.Client{{
		ID:   "c1",
		Name: "Acme",
		ScheduledEmails: []record.ScheduledItem{
			{ID: "e1", Label: "bad", Date: "not-a-date"},
			{ID: "e2", Label: "good", Date: "2024-03-11"},
		},
	}})

	require.Len(t, ns, 1)
	assert.Equal(t, "email:c1:e2", ns[0].ID)
}

func TestRecomputationIsIdempotent(t *testing.T) {
	a := newTestAggregator(t)
	clients := fixtureClients()

	first := notificationIDs(a.Recompute(clients))
	second := notificationIDs(a.Recompute(clients))

	assert.ElementsMatch(t, first, second)
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	a := newTestAggregator(t)
	a.Recompute(fixtureClients())

	total := len(a.Notifications())
	require.Greater(t, total, 0)
	assert.Equal(t, total, a.UnreadCount())

	require.NoError(t, a.MarkAllRead())
	assert.Equal(t, 0, a.UnreadCount())

	// New notifications after marking are unread again.
	clients := fixtureClients()
	clients[0].ScheduledEmails = append(clients[0].ScheduledEmails,
		record.ScheduledItem{ID: "e9", Label: "New", Date: "2024-03-11"})
	a.Recompute(clients)
	assert.Equal(t, 1, a.UnreadCount())
}

func TestReadSetMonotoneAcrossDisappearance(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenReadState(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	defer state.Close()

	a, err := New(state, WithNow(fixedToday))
	require.NoError(t, err)

	a.Recompute(fixtureClients())
	require.NoError(t, a.MarkAllRead())

	before, err := state.LoadReadSet()
	require.NoError(t, err)

	// Every notification disappears; marking again must not shrink the set.
	a.Recompute(nil)
	require.NoError(t, a.MarkAllRead())

	after, err := state.LoadReadSet()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(after), len(before))
	for id := range before {
		assert.Contains(t, after, id)
	}
}

func TestReadStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")

	state, err := OpenReadState(path)
	require.NoError(t, err)
	a, err := New(state, WithNow(fixedToday))
	require.NoError(t, err)
	a.Recompute(fixtureClients())
	require.NoError(t, a.MarkAllRead())
	require.NoError(t, state.Close())

	reopened, err := OpenReadState(path)
	require.NoError(t, err)
	defer reopened.Close()

	b, err := New(reopened, WithNow(fixedToday))
	require.NoError(t, err)
	b.Recompute(fixtureClients())
	assert.Equal(t, 0, b.UnreadCount())
}

func TestGoldenNotificationList(t *testing.T) {
	a := newTestAggregator(t)
	ns := a.Recompute(fixtureClients())

	encoded, err := json.MarshalIndent(ns, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "notifications", encoded)
}
