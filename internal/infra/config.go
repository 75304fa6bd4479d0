package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	KafkaBrokers  string
	KafkaGroupID  string
	KafkaTopics   string
	BatchSize     int
	FlushInterval time.Duration

	RedisAddr       string
	TrafficCacheKey string

	TrafficAPIURL   string
	TrafficAPIToken string
	TrafficZoneID   string
	TrafficRefresh  string

	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string

	GeoIPDBPath   string
	DefaultLocale string

	MigrationsPath string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "listing-stats"),
		KafkaTopics:   getEnv("KAFKA_TOPICS", "listing-events"),
		BatchSize:     getEnvInt("BATCH_SIZE", 100),
		FlushInterval: time.Second * time.Duration(getEnvInt("FLUSH_INTERVAL_SECONDS", 5)),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		TrafficCacheKey: getEnv("TRAFFIC_CACHE_KEY", "traffic:snapshot"),

		TrafficAPIURL:   os.Getenv("TRAFFIC_API_URL"),
		TrafficAPIToken: os.Getenv("TRAFFIC_API_TOKEN"),
		TrafficZoneID:   os.Getenv("TRAFFIC_ZONE_ID"),
		TrafficRefresh:  getEnv("TRAFFIC_REFRESH_EVERY", "@every 10m"),

		ArchiveEndpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveAccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
		ArchiveSecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
		ArchiveBucket:    getEnv("ARCHIVE_BUCKET", "raw-events"),

		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// KafkaBrokerList splits the comma-separated broker string.
func (c *Config) KafkaBrokerList() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// KafkaTopicList splits the comma-separated topic string.
func (c *Config) KafkaTopicList() []string {
	return strings.Split(c.KafkaTopics, ",")
}

// TrafficConfigured reports whether the external traffic API is set up.
func (c *Config) TrafficConfigured() bool {
	return c.TrafficAPIURL != "" && c.TrafficZoneID != ""
}

// ArchiveConfigured reports whether raw-batch archival is set up.
func (c *Config) ArchiveConfigured() bool {
	return c.ArchiveEndpoint != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
