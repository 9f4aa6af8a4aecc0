// Package notify derives the unified notification view from the
// schedule-bearing client records and owns the only durable piece of
// client-side state: the notification read-set.
//
// The notification list is recomputed from scratch on every relevant
// change - no incremental patching. The same input set always produces the
// same identifier set.
package notify

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/roach88/atelier/internal/record"
)

// Window boundaries, in days from today.
const (
	soonDays = 2
	weekDays = 7
)

// Aggregator recomputes the notification list and tracks read state.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Aggregator struct {
	state *ReadState
	now   func() time.Time

	mu            sync.Mutex
	read          map[string]struct{}
	notifications []record.Notification
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithNow overrides the time source. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// New creates an Aggregator and loads the durable read-set once. A corrupt
// read-set blob degrades to empty inside LoadReadSet, never failing
// startup.
func New(state *ReadState, opts ...Option) (*Aggregator, error) {
	read, err := state.LoadReadSet()
	if err != nil {
		return nil, fmt.Errorf("load read state: %w", err)
	}

	a := &Aggregator{
		state:         state,
		now:           time.Now,
		read:          read,
		notifications: []record.Notification{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Recompute derives the full notification list from the given clients,
// replacing the previous list. Partially-loaded input is fine; the caller
// recomputes again when more stores finish loading.
//
// Returned notifications are sorted by composite identifier for stable
// output; equality is defined on the identifier set, not the order.
func (a *Aggregator) Recompute(clients []record.Client) []record.Notification {
	today := truncateToDay(a.now())
	soon := today.AddDate(0, 0, soonDays)
	week := today.AddDate(0, 0, weekDays)
	weekAgo := today.AddDate(0, 0, -weekDays)

	out := []record.Notification{}

	for _, c := range clients {
		out = append(out, emailNotifications(c, today, soon, week)...)
		out = append(out, itemNotifications(c, record.CategoryDocument, c.DocumentRequests, c.ReceivedDocIDs, today, week)...)
		out = append(out, itemNotifications(c, record.CategoryQuestion, c.Questions, c.AnsweredQuestionIDs, today, week)...)

		if n, ok := statusNotification(c, weekAgo, today); ok {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	a.mu.Lock()
	a.notifications = out
	a.mu.Unlock()

	return a.Notifications()
}

// Notifications returns a copy of the current derived list.
func (a *Aggregator) Notifications() []record.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]record.Notification, len(a.notifications))
	copy(out, a.notifications)
	return out
}

// UnreadCount counts notifications whose identifier is absent from the
// durable read-set.
func (a *Aggregator) UnreadCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for _, n := range a.notifications {
		if _, ok := a.read[n.ID]; !ok {
			count++
		}
	}
	return count
}

// IsRead reports whether a composite identifier is in the read-set.
func (a *Aggregator) IsRead(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.read[id]
	return ok
}

// MarkAllRead unions every current notification identifier into the
// durable read-set and persists it.
//
// The union never removes entries: identifiers of notifications that later
// disappear persist harmlessly, so the read-set size never decreases.
func (a *Aggregator) MarkAllRead() error {
	a.mu.Lock()
	for _, n := range a.notifications {
		a.read[n.ID] = struct{}{}
	}
	snapshot := make(map[string]struct{}, len(a.read))
	for id := range a.read {
		snapshot[id] = struct{}{}
	}
	a.mu.Unlock()

	if err := a.state.SaveReadSet(snapshot); err != nil {
		return fmt.Errorf("persist read state: %w", err)
	}
	return nil
}

// emailNotifications applies the two-tier email window: imminent within
// two days, this-week within seven. Other categories do not get the
// escalation.
func emailNotifications(c record.Client, today, soon, week time.Time) []record.Notification {
	out := []record.Notification{}
	resolved := idSet(c.SentEmailIDs)

	for _, item := range c.ScheduledEmails {
		if _, done := resolved[item.ID]; done {
			continue
		}
		date, err := item.ParseDate()
		if err != nil {
			slog.Debug("skipping unparseable schedule date",
				"category", record.CategoryEmail,
				"client", c.ID,
				"item", item.ID,
				"date", item.Date,
			)
			continue
		}

		var tier string
		switch {
		case !date.Before(today) && !date.After(soon):
			tier = record.TierImminent
		case date.After(soon) && !date.After(week):
			tier = record.TierThisWeek
		default:
			continue
		}

		out = append(out, record.Notification{
			ID:          record.NotificationID(record.CategoryEmail, c.ID, item.ID),
			Category:    record.CategoryEmail,
			Tier:        tier,
			Label:       item.Label,
			Description: fmt.Sprintf("%s - email scheduled %s", c.Name, item.Date),
			Route:       record.Route{Name: "client-detail", ParentID: c.ID},
		})
	}
	return out
}

// itemNotifications applies the single combined window used by documents
// and questions: anything unresolved between today and seven days out.
func itemNotifications(c record.Client, category string, items []record.ScheduledItem, resolvedIDs []string, today, week time.Time) []record.Notification {
	out := []record.Notification{}
	resolved := idSet(resolvedIDs)

	for _, item := range items {
		if _, done := resolved[item.ID]; done {
			continue
		}
		date, err := item.ParseDate()
		if err != nil {
			slog.Debug("skipping unparseable schedule date",
				"category", category,
				"client", c.ID,
				"item", item.ID,
				"date", item.Date,
			)
			continue
		}
		if date.Before(today) || date.After(week) {
			continue
		}

		out = append(out, record.Notification{
			ID:          record.NotificationID(category, c.ID, item.ID),
			Category:    category,
			Tier:        record.TierThisWeek,
			Label:       item.Label,
			Description: fmt.Sprintf("%s - due %s", c.Name, item.Date),
			Route:       record.Route{Name: "client-detail", ParentID: c.ID},
		})
	}
	return out
}

// statusNotification surfaces clients in error state whose reference date
// falls within the past seven days, inclusive.
func statusNotification(c record.Client, weekAgo, today time.Time) (record.Notification, bool) {
	if c.Status != record.StatusError {
		return record.Notification{}, false
	}
	date, err := time.Parse(record.DateLayout, c.StatusDate)
	if err != nil {
		slog.Debug("skipping unparseable status date", "client", c.ID, "date", c.StatusDate)
		return record.Notification{}, false
	}
	if date.Before(weekAgo) || date.After(today) {
		return record.Notification{}, false
	}

	return record.Notification{
		ID:          record.NotificationID(record.CategoryStatus, c.ID, ""),
		Category:    record.CategoryStatus,
		Tier:        record.TierAttention,
		Label:       c.Name,
		Description: fmt.Sprintf("%s - in error since %s", c.Name, c.StatusDate),
		Route:       record.Route{Name: "client-detail", ParentID: c.ID},
	}, true
}

// truncateToDay reduces a timestamp to its date at UTC midnight, matching
// the precision of wire-format dates.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
