// Package cache provides caching for expensive pipeline artifacts.
//
// Rendered title rasters, uploaded image URLs, and marketplace catalog
// lookups are all cacheable: the same slug and settings always produce the
// same bytes. The Cache interface abstracts the backend:
//   - file: On-disk storage for CLI usage (the default)
//   - redis: Shared storage when several workers process the same batch
//   - null: Disabled caching for tests and forced re-renders
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures, never for missing keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a deterministic cache key from a prefix and its parts.
// Parts are JSON-encoded and hashed so arbitrary values (settings structs,
// file contents) can participate without escaping concerns.
func Key(prefix string, parts ...any) string {
	return hashKey(prefix, parts...)
}
