package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis, sharing the same envelope format as
// the file backend so the freshness filter behaves identically. Useful when
// several machines should share one response cache.
//
// Entries are written with a generous server-side expiry (4x the TTL) purely
// as memory housekeeping; the authoritative staleness check remains the
// read-time created_at filter.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance described by url
// (e.g. "redis://localhost:6379/0") and verifies it with a ping.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get retrieves a fresh entry; redis.Nil and corrupt payloads are a miss.
func (c *RedisCache) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, ok := decodeEntry(raw, ttl, time.Now())
	return data, ok, nil
}

// Set stores data under key, resetting its creation timestamp.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	raw, err := encodeEntry(data, time.Now())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, 4*c.ttl).Err()
}

// Delete removes the entry for key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
