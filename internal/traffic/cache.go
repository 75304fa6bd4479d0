package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"server/internal/domain"
)

// Snapshot aliases the domain type so traffic callers stay inside this
// package's vocabulary.
type Snapshot = domain.TrafficSnapshot

// RedisCache stores the traffic snapshot as one JSON value under one key:
// a last-write-wins cell with an externally owned refresh cadence.
type RedisCache struct {
	client *redis.Client
	key    string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, key string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client, key: key}, nil
}

// Store overwrites the cell with the given snapshot. No TTL: a stale value
// beats synthesized zeros until the next refresh lands.
func (c *RedisCache) Store(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode traffic snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("store traffic snapshot: %w", err)
	}
	return nil
}

// Load returns the current snapshot, or domain.ErrUnavailable while the cell
// has never been populated.
func (c *RedisCache) Load(ctx context.Context) (*Snapshot, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnavailable
		}
		return nil, fmt.Errorf("load traffic snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode traffic snapshot: %w", err)
	}
	return &snap, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ domain.TrafficCache = (*RedisCache)(nil)
