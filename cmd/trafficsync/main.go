package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"server/internal/infra"
	"server/internal/traffic"
)

// trafficsync runs one traffic refresh cycle and exits. Useful for warming
// the cache after a deploy or for debugging the external API integration.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "trafficsync")

	if !cfg.TrafficConfigured() {
		logger.Fatal().Msg("trafficsync: TRAFFIC_API_URL and TRAFFIC_ZONE_ID are required")
	}

	cache, err := traffic.NewRedisCache(cfg.RedisAddr, cfg.TrafficCacheKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("trafficsync: redis connection failed")
	}
	defer cache.Close()

	refresher := traffic.NewRefresher(traffic.NewFetcher(traffic.Options{
		APIURL:   cfg.TrafficAPIURL,
		APIToken: cfg.TrafficAPIToken,
		ZoneID:   cfg.TrafficZoneID,
		Logger:   logger,
	}), cache, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := refresher.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("trafficsync: refresh failed")
	}
	logger.Info().Msg("trafficsync: done")
}
