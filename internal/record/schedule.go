package record

import "time"

// DateLayout is the wire format for every scheduled-item and status date.
const DateLayout = "2006-01-02"

// ScheduledItem is a dated sub-record embedded in a client: a scheduled
// email, a requested document, or an open question.
//
// Whether an item is resolved is tracked by the sibling resolved-ID list on
// the parent client, never on the item itself.
type ScheduledItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Date  string `json:"date"`
}

// ParseDate parses the item's date in DateLayout.
// Callers skip items whose date does not parse.
func (s ScheduledItem) ParseDate() (time.Time, error) {
	return time.Parse(DateLayout, s.Date)
}
