package cache

import (
	"context"
	"sync"
	"time"
)

// cacheEntry holds a cached value with its expiry.
type cacheEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCache is a thread-safe in-memory cache with per-entry TTL.
type InMemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	now   func() time.Time
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

// Fetch retrieves a value from the cache.
// Returns the value and true if found and not expired, nil and false otherwise.
func (c *InMemoryCache) Fetch(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if entry.expired(c.now()) {
		// Entry expired - clean it up
		c.mu.Lock()
		if current, ok := c.cache[key]; ok && current.expired(c.now()) {
			delete(c.cache, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return append([]byte(nil), entry.value...), true, nil
}

// Save stores a value in the cache.
func (c *InMemoryCache) Save(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = entry
	return nil
}

// Delete removes a value from the cache.
func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
	return nil
}

// FlushAll removes all entries from the cache.
func (c *InMemoryCache) FlushAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Verify InMemoryCache implements Provider
var _ Provider = (*InMemoryCache)(nil)
