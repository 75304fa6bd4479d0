package domain

import "time"

// TrafficSnapshot is a site-wide edge traffic summary pulled from the
// external analytics API. It is a last-write-wins cell: readers see whatever
// refresh completed most recently, or ErrUnavailable before the first one.
type TrafficSnapshot struct {
	Requests       int64     `json:"requests"`
	UniqueVisitors int64     `json:"unique_visitors"`
	Bytes          int64     `json:"bytes"`
	CacheHitRate   float64   `json:"cache_hit_rate"`
	FetchedAt      time.Time `json:"fetched_at"`
}
