package traffic

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Refresher fetches a fresh snapshot and publishes it to the cache. The
// worker schedules it on a cron cadence; trafficsync runs it once.
type Refresher struct {
	fetcher *Fetcher
	cache   domain.TrafficCache
	logger  zerolog.Logger
}

func NewRefresher(fetcher *Fetcher, cache domain.TrafficCache, logger zerolog.Logger) *Refresher {
	return &Refresher{fetcher: fetcher, cache: cache, logger: logger}
}

// Run performs one fetch-and-store cycle. On failure the previous cached
// value stays in place.
func (r *Refresher) Run(ctx context.Context) error {
	snap, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("traffic: refresh failed, keeping previous snapshot")
		return err
	}
	if err := r.cache.Store(ctx, *snap); err != nil {
		r.logger.Error().Err(err).Msg("traffic: snapshot store failed")
		return err
	}
	r.logger.Info().
		Int64("requests", snap.Requests).
		Int64("uniques", snap.UniqueVisitors).
		Float64("cache_hit_rate", snap.CacheHitRate).
		Msg("traffic: snapshot refreshed")
	return nil
}
