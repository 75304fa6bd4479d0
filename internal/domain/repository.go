package domain

import "context"

// StatsRepository persists and reads the per-(listing, day) counter rows.
type StatsRepository interface {
	// IncrementDaily atomically inserts the row or adds delta to the
	// existing counters. Concurrent calls for the same key are linearized
	// by the store.
	IncrementDaily(ctx context.Context, listingID, day string, delta Counters) error
	// RangeDaily returns the stored rows for the inclusive day range,
	// ordered by day ascending. Days without a row are absent.
	RangeDaily(ctx context.Context, listingID, from, to string) ([]DailyStats, error)
	// RangeTotalsAllListings returns every listing with its summed
	// counters over the range; listings without rows get zero totals.
	RangeTotalsAllListings(ctx context.Context, from, to string) ([]SummaryItem, error)
}

// ListingRepository reads listing metadata.
type ListingRepository interface {
	BySlugOrID(ctx context.Context, slugOrID string) (*Listing, error)
}

// TrafficCache is the last-write-wins cell for the edge traffic snapshot.
// Load returns ErrUnavailable while the cell has never been written.
type TrafficCache interface {
	Store(ctx context.Context, snap TrafficSnapshot) error
	Load(ctx context.Context) (*TrafficSnapshot, error)
}
