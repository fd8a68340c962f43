// Package cache provides langpack cache implementations.
package cache

import (
	"context"
	"time"
)

// Provider is the interface for langpack caching. It matches gointl.CacheProvider.
type Provider interface {
	// Fetch retrieves a cached value. Returns nil and false if not found or expired.
	Fetch(ctx context.Context, key string) ([]byte, bool, error)

	// Save stores a value. A zero ttl keeps it until deleted or flushed.
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// FlushAll removes every value this cache owns.
	FlushAll(ctx context.Context) error
}
