package domain

// Counters holds the eight additive per-day counters. The same shape serves
// as the durable row payload, the per-batch delta and the report totals:
// all three are component-wise sums of each other.
type Counters struct {
	Views             int64 `json:"views"`
	SearchImpressions int64 `json:"search_impressions"`
	MapImpressions    int64 `json:"map_impressions"`
	ClicksPhone       int64 `json:"clicks_phone"`
	ClicksWebsite     int64 `json:"clicks_website"`
	ClicksEmail       int64 `json:"clicks_email"`
	ClicksDirections  int64 `json:"clicks_directions"`
	Leads             int64 `json:"leads"`
}

// Record increments the counter matching the given kind by one.
func (c *Counters) Record(kind EventKind) {
	switch kind {
	case KindProfileView:
		c.Views++
	case KindSearchImpression:
		c.SearchImpressions++
	case KindMapImpression:
		c.MapImpressions++
	case KindClickPhone:
		c.ClicksPhone++
	case KindClickWebsite:
		c.ClicksWebsite++
	case KindClickEmail:
		c.ClicksEmail++
	case KindClickDirections:
		c.ClicksDirections++
	case KindLeadSubmit:
		c.Leads++
	}
}

// Merge adds every counter of other into c.
func (c *Counters) Merge(other Counters) {
	c.Views += other.Views
	c.SearchImpressions += other.SearchImpressions
	c.MapImpressions += other.MapImpressions
	c.ClicksPhone += other.ClicksPhone
	c.ClicksWebsite += other.ClicksWebsite
	c.ClicksEmail += other.ClicksEmail
	c.ClicksDirections += other.ClicksDirections
	c.Leads += other.Leads
}

// DailyStats is one durable counter row for a (listing, day) pair.
type DailyStats struct {
	Day string `json:"day"`
	Counters
}
