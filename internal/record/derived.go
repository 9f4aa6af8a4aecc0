package record

// Notification categories. The category is the first segment of the
// composite identifier, so values must never collide or change.
const (
	CategoryEmail    = "email"
	CategoryDocument = "document"
	CategoryQuestion = "question"
	CategoryStatus   = "status"
)

// Notification tiers, most urgent first. Emails get the two-tier
// escalation; documents and questions surface as TierThisWeek for the whole
// combined window; status alerts are TierAttention.
const (
	TierImminent  = "imminent"
	TierThisWeek  = "this-week"
	TierAttention = "attention"
)

// Route is an abstract navigation target carried by derived values. The UI
// layer owns the mapping from route names to actual views.
type Route struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// Notification is a derived, non-persisted alert. Only its read flag is
// durable, keyed by the composite ID, surviving recomputation and sessions.
type Notification struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Tier        string `json:"tier"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Route       Route  `json:"route"`
}

// NotificationID builds the composite identifier "category:parentID:itemID",
// or "category:parentID" for status-based notifications with no item.
//
// The composite must be deterministic and collision-free across categories;
// category values are a closed set, so the colon join is unambiguous.
func NotificationID(category, parentID, itemID string) string {
	if itemID == "" {
		return category + ":" + parentID
	}
	return category + ":" + parentID + ":" + itemID
}

// SearchResult is a derived, non-persisted global-search hit. ParentID is
// the back-reference from a contact hit to its owning client; empty for
// other categories.
type SearchResult struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	SubLabel string `json:"subLabel"`
	Route    Route  `json:"route"`
	ParentID string `json:"parentId,omitempty"`
}
