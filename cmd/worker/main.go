package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"server/internal/adapter/repo"
	"server/internal/archive"
	"server/internal/infra"
	"server/internal/ingest"
	"server/internal/kafka"
	"server/internal/traffic"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.RunMigrations(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("worker: migrations failed")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	stats := repo.NewStatsRepository(pool)
	merger := ingest.NewMerger(stats, logger)

	var archiver ingest.Archiver
	if cfg.ArchiveConfigured() {
		minioArchiver, err := archive.NewMinIOArchiver(cfg.ArchiveEndpoint, cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, cfg.ArchiveBucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: archive storage failed")
		}
		archiver = minioArchiver
	}

	pipeline := ingest.NewPipeline(merger, archiver, logger)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       cfg.KafkaBrokerList(),
		GroupID:       cfg.KafkaGroupID,
		Topics:        cfg.KafkaTopicList(),
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
	}, pipeline, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: consumer setup failed")
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker: consumer start failed")
	}

	scheduler := cron.New()
	if cfg.TrafficConfigured() {
		cache, err := traffic.NewRedisCache(cfg.RedisAddr, cfg.TrafficCacheKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: redis connection failed")
		}
		defer cache.Close()

		refresher := traffic.NewRefresher(traffic.NewFetcher(traffic.Options{
			APIURL:   cfg.TrafficAPIURL,
			APIToken: cfg.TrafficAPIToken,
			ZoneID:   cfg.TrafficZoneID,
			Logger:   logger,
		}), cache, logger)

		if _, err := scheduler.AddFunc(cfg.TrafficRefresh, func() {
			_ = refresher.Run(ctx)
		}); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.TrafficRefresh).Msg("worker: invalid traffic schedule")
		}
		scheduler.Start()
		logger.Info().Str("schedule", cfg.TrafficRefresh).Msg("worker: traffic refresh scheduled")
	} else {
		logger.Warn().Msg("worker: traffic api not configured, refresh disabled")
	}

	logger.Info().Msg("worker: started")
	<-ctx.Done()

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
