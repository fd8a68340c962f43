package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultLRUSize = 512

type lruEntry struct {
	value     []byte
	expiresAt time.Time
}

// LRUCache is a size-bounded in-memory cache. When full, the least recently
// used langpack is evicted; entries also honour their TTL.
type LRUCache struct {
	cache *lru.Cache[string, lruEntry]
	now   func() time.Time
}

// NewLRUCache creates an LRU cache holding at most size langpacks.
// A non-positive size uses a default of 512.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = defaultLRUSize
	}

	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}

	return &LRUCache{cache: c, now: time.Now}, nil
}

// Fetch retrieves a value, dropping it if its TTL has passed.
func (c *LRUCache) Fetch(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}

	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false, nil
	}

	return append([]byte(nil), entry.value...), true, nil
}

// Save stores a value, evicting the least recently used entry when full.
func (c *LRUCache) Save(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := lruEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, entry)
	return nil
}

// Delete removes a value.
func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}

// FlushAll removes every entry.
func (c *LRUCache) FlushAll(_ context.Context) error {
	c.cache.Purge()
	return nil
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	return c.cache.Len()
}

// Verify LRUCache implements Provider
var _ Provider = (*LRUCache)(nil)
