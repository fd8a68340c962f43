package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "gointl:"
	flushScanCount   = 100
)

// RedisCache is a Redis-backed langpack cache.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "gointl:")
}

// NewRedisCache creates a new Redis cache with the given configuration.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCacheFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Fetch retrieves a value from Redis.
func (c *RedisCache) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Save stores a value in Redis. A zero ttl stores without expiry.
func (c *RedisCache) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err()
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.keyPrefix+key).Err()
}

// FlushAll deletes every key under the cache's prefix. Other data in the
// same Redis database is left alone.
func (c *RedisCache) FlushAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, escapeGlob(c.keyPrefix)+"*", flushScanCount).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// escapeGlob escapes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements Provider
var _ Provider = (*RedisCache)(nil)
