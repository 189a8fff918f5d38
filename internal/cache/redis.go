package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis instance, using Redis's native
// key expiry for the TTL. Suitable when several flipradar processes
// should share one cache.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis cache writing keys under prefix with the
// given fixed TTL.
func NewRedis(rdb *redis.Client, ttl time.Duration, prefix string) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Ping verifies connectivity to the Redis instance.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, target any) (bool, error) {
	data, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("unmarshaling cache entry %q: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache entry %q: %w", key, err)
	}

	if err := r.rdb.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
