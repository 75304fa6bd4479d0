package ingest

import (
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// GroupKey identifies one (listing, day) aggregation group within a batch.
type GroupKey struct {
	ListingID string
	Day       string
}

// Aggregate folds a delivery batch into one delta per distinct (listing, day)
// group, in batch order. Events missing a listing id or timestamp and events
// with an unrecognized type are skipped and logged; they never fail the batch
// or drop the rest of their group. The returned deltas hold counts for this
// batch only, the running totals live in the store.
func Aggregate(events []domain.Event, logger zerolog.Logger) map[GroupKey]*domain.Counters {
	deltas := make(map[GroupKey]*domain.Counters)
	for _, ev := range events {
		if ev.ListingID == "" {
			logger.Warn().Str("type", ev.Type).Msg("ingest: event without listing id dropped")
			continue
		}
		day := ev.Day()
		if day == "" {
			logger.Warn().Str("listing_id", ev.ListingID).Str("type", ev.Type).Msg("ingest: event without timestamp dropped")
			continue
		}
		key := GroupKey{ListingID: ev.ListingID, Day: day}
		delta, ok := deltas[key]
		if !ok {
			delta = &domain.Counters{}
			deltas[key] = delta
		}
		kind, ok := domain.ParseEventKind(ev.Type)
		if !ok {
			logger.Warn().Str("listing_id", ev.ListingID).Str("type", ev.Type).Msg("ingest: unrecognized event type dropped")
			continue
		}
		delta.Record(kind)
	}
	return deltas
}
