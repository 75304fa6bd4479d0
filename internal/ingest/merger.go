package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Merger applies aggregated deltas to the statistics store. It is the single
// write path shared by the batched consumer and the legacy track endpoint,
// so both granularities go through the same additive upsert.
type Merger struct {
	stats  domain.StatsRepository
	logger zerolog.Logger
}

func NewMerger(stats domain.StatsRepository, logger zerolog.Logger) *Merger {
	return &Merger{stats: stats, logger: logger}
}

// ApplyBatch upserts every delta of one batch. Deltas touch disjoint keys, so
// write order does not matter. The first failed write aborts the batch and
// the error propagates to the transport, which redelivers the whole batch.
// Deltas merged before the failure stay merged; redelivery will add them
// again. That over-count is the documented cost of at-least-once delivery
// without a cross-batch dedup ledger.
func (m *Merger) ApplyBatch(ctx context.Context, deltas map[GroupKey]*domain.Counters) error {
	applied := 0
	for key, delta := range deltas {
		if err := m.stats.IncrementDaily(ctx, key.ListingID, key.Day, *delta); err != nil {
			if applied > 0 {
				m.logger.Warn().
					Int("applied", applied).
					Int("total", len(deltas)).
					Str("listing_id", key.ListingID).
					Str("day", key.Day).
					Msg("ingest: batch aborted after partial merge; redelivery will re-apply the merged groups")
			}
			return fmt.Errorf("merge stats for %s/%s: %w", key.ListingID, key.Day, err)
		}
		applied++
	}
	return nil
}

// ApplyOne records a single event synchronously, bypassing batching. Used by
// the legacy track endpoint.
func (m *Merger) ApplyOne(ctx context.Context, listingID, day string, kind domain.EventKind) error {
	var delta domain.Counters
	delta.Record(kind)
	if err := m.stats.IncrementDaily(ctx, listingID, day, delta); err != nil {
		return fmt.Errorf("merge stats for %s/%s: %w", listingID, day, err)
	}
	return nil
}
