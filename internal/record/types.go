package record

// Client status values recognized by the notification aggregator.
// Any other status string is carried through untouched and ignored.
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusError   = "error"
)

// Client is the root entity of the console. Its Code is the scope key that
// every client-scoped collection filters on.
//
// The three scheduled-item slices and their sibling resolved-ID lists feed
// the notification aggregator. An item is resolved iff its ID appears in the
// sibling list; resolution is never stored on the item itself.
type Client struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	City   string `json:"city"`

	Status     string `json:"status"`
	StatusDate string `json:"statusDate"`

	ScheduledEmails  []ScheduledItem `json:"scheduledEmails"`
	DocumentRequests []ScheduledItem `json:"documentRequests"`
	Questions        []ScheduledItem `json:"questions"`

	SentEmailIDs        []string `json:"sentEmailIds"`
	ReceivedDocIDs      []string `json:"receivedDocIds"`
	AnsweredQuestionIDs []string `json:"answeredQuestionIds"`
}

func (c Client) RecordID() string { return c.ID }

func (c Client) WithID(id string) Client {
	c.ID = id
	return c
}

// Normalized returns a copy with every optional collection coerced to an
// empty (non-nil) slice.
func (c Client) Normalized() Client {
	c.ScheduledEmails = normalizeItems(c.ScheduledEmails)
	c.DocumentRequests = normalizeItems(c.DocumentRequests)
	c.Questions = normalizeItems(c.Questions)
	c.SentEmailIDs = normalizeStrings(c.SentEmailIDs)
	c.ReceivedDocIDs = normalizeStrings(c.ReceivedDocIDs)
	c.AnsweredQuestionIDs = normalizeStrings(c.AnsweredQuestionIDs)
	return c
}

// Contact is a person attached to a client.
type Contact struct {
	ID         string `json:"id"`
	ClientCode string `json:"clientCode"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func (c Contact) RecordID() string { return c.ID }

func (c Contact) WithID(id string) Contact {
	c.ID = id
	return c
}

func (c Contact) Normalized() Contact { return c }

// Note is a free-text activity entry on a client. Notes are chronological,
// latest first; new notes are prepended locally.
type Note struct {
	ID         string `json:"id"`
	ClientCode string `json:"clientCode"`
	Body       string `json:"body"`
	Author     string `json:"author"`
	Created    string `json:"created"`
}

func (n Note) RecordID() string { return n.ID }

func (n Note) WithID(id string) Note {
	n.ID = id
	return n
}

func (n Note) Normalized() Note { return n }

// Evaluation is a service-catalog entry. Catalog entities are alphabetically
// sorted server-side; local state never re-sorts after a create.
type Evaluation struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (e Evaluation) RecordID() string { return e.ID }

func (e Evaluation) WithID(id string) Evaluation {
	e.ID = id
	return e
}

func (e Evaluation) Normalized() Evaluation { return e }

// Invoice is a billing document scoped to a client.
type Invoice struct {
	ID         string  `json:"id"`
	ClientCode string  `json:"clientCode"`
	Number     string  `json:"number"`
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
}

func (i Invoice) RecordID() string { return i.ID }

func (i Invoice) WithID(id string) Invoice {
	i.ID = id
	return i
}

func (i Invoice) Normalized() Invoice { return i }

// Variable is one entry of the client-scoped key→label dictionary used by
// document generation. The dictionary is re-seeded wholesale via the
// store's replace-all operation.
type Variable struct {
	ID         string `json:"id"`
	ClientCode string `json:"clientCode"`
	Key        string `json:"key"`
	Label      string `json:"label"`
}

func (v Variable) RecordID() string { return v.ID }

func (v Variable) WithID(id string) Variable {
	v.ID = id
	return v
}

func (v Variable) Normalized() Variable { return v }

func normalizeItems(items []ScheduledItem) []ScheduledItem {
	if items == nil {
		return []ScheduledItem{}
	}
	return items
}

func normalizeStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
