package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores one file per key under a cache directory.
// Filenames are the hex SHA-256 digest of the key, so arbitrary key strings
// are safe. Reads and writes are lock-free; concurrent writers to the same
// key race with last-writer-wins, and a torn write is caught by the
// unparsable-entry-is-a-miss rule on the next read.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates a file-based cache in dir with the given default TTL.
// If dir is empty, ~/.cache/ranksheet is used. The directory is created if
// it doesn't exist.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "ranksheet")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory path.
func (c *FileCache) Dir() string { return c.dir }

// TTL returns the configured default time-to-live.
func (c *FileCache) TTL() time.Duration { return c.ttl }

// Get retrieves a fresh entry. Missing files, corrupt JSON, and expired
// entries all return (nil, false, nil). Expired entries are left on disk;
// staleness is purely a read-time filter.
func (c *FileCache) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false, nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, ok := decodeEntry(raw, ttl, time.Now())
	return data, ok, nil
}

// Set stores data under key, overwriting any prior entry and resetting its
// creation timestamp.
func (c *FileCache) Set(ctx context.Context, key string, data []byte) error {
	raw, err := encodeEntry(data, time.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, Hash([]byte(key))+".json")
}

var _ Cache = (*FileCache)(nil)
