package domain

// Listing is business-directory listing metadata. It only decorates report
// output; nothing in this service mutates it.
type Listing struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Locale   string `json:"locale,omitempty"`
	Category string `json:"category,omitempty"`
	Plan     string `json:"plan,omitempty"`
}
