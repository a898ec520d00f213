// Package cache provides response caching for upstream fetches.
//
// Entries are JSON envelopes carrying the payload and its creation time.
// Staleness is a read-time filter: an entry older than the TTL reads as a
// miss but is never evicted, so stretching the TTL can resurrect it.
// Backends share the envelope format, which makes them interchangeable.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultTTL is the freshness window applied when no TTL is configured.
const DefaultTTL = 3600 * time.Second

// Cache is the pluggable backend contract. Get's ttl parameter overrides
// the backend default for that read when positive.
type Cache interface {
	Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// entry is the on-disk/on-wire envelope.
type entry struct {
	CreatedAt time.Time       `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// encodeEntry wraps payload data in the envelope stamped at now.
func encodeEntry(data []byte, now time.Time) ([]byte, error) {
	return json.Marshal(entry{CreatedAt: now, Data: data})
}

// decodeEntry unwraps an envelope and applies the freshness filter.
// Corrupt payloads read as a miss rather than an error.
func decodeEntry(raw []byte, ttl time.Duration, now time.Time) ([]byte, bool) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if e.CreatedAt.IsZero() || now.Sub(e.CreatedAt) > ttl {
		return nil, false
	}
	return e.Data, true
}

// GetJSON retrieves and unmarshals a cached value into v.
func GetJSON(ctx context.Context, c Cache, key string, ttl time.Duration, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key, ttl)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data)
}
