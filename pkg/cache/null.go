package cache

import (
	"context"
	"time"
)

// NullCache discards everything. It serves --no-cache runs, where the
// operator wants every upload to really happen again, and tests that must
// observe each request.
type NullCache struct{}

// NewNullCache returns the disabled cache backend.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete has nothing to remove.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
