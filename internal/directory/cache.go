package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lookupKeyPrefix = "directory:lookup:"

// RedisCache keeps lookup maps as JSON strings with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a RedisCache whose entries expire after ttl.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// GetLookup returns the cached map for name. ok is false on a miss.
func (c *RedisCache) GetLookup(ctx context.Context, name string) (map[string]string, bool, error) {
	raw, err := c.rdb.Get(ctx, lookupKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET: %w", err)
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", name, err)
	}
	return m, true, nil
}

// SetLookup stores m under name, replacing any previous value.
func (c *RedisCache) SetLookup(ctx context.Context, name string, m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := c.rdb.Set(ctx, lookupKeyPrefix+name, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	return nil
}
