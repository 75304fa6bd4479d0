package domain

// EventKind enumerates the interaction kinds tracked for a listing.
type EventKind string

const (
	KindProfileView      EventKind = "profile_view"
	KindSearchImpression EventKind = "search_impression"
	KindMapImpression    EventKind = "map_impression"
	KindClickPhone       EventKind = "click_phone"
	KindClickWebsite     EventKind = "click_website"
	KindClickEmail       EventKind = "click_email"
	KindClickDirections  EventKind = "click_directions"
	KindLeadSubmit       EventKind = "lead_submit"
)

// ParseEventKind maps a raw type string onto the closed enumeration. The
// second return value is false for unrecognized values so callers can skip
// and log them instead of failing a whole batch.
func ParseEventKind(raw string) (EventKind, bool) {
	switch EventKind(raw) {
	case KindProfileView, KindSearchImpression, KindMapImpression,
		KindClickPhone, KindClickWebsite, KindClickEmail,
		KindClickDirections, KindLeadSubmit:
		return EventKind(raw), true
	}
	return "", false
}

// Event is a raw interaction delivered by the event transport. Meta is an
// opaque payload carried through for archival, never interpreted here.
type Event struct {
	ListingID  string         `json:"listing_id"`
	Type       string         `json:"type"`
	OccurredAt string         `json:"occurred_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Day returns the UTC calendar day portion of OccurredAt ("2006-01-02").
// Empty when the timestamp is missing or too short to contain a date.
func (e Event) Day() string {
	if len(e.OccurredAt) < 10 {
		return ""
	}
	return e.OccurredAt[:10]
}
