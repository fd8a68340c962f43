package gointl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures request throttling for providers and object stores.
type RateLimitConfig struct {
	RequestsPerMinute int // 60 when unset
	BurstSize         int // RequestsPerMinute when unset
}

// RateLimiter is a token bucket shared by the calls it guards.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter that starts with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
	}
}

// Wait blocks until a token is available. It fails early when ctx would expire first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire takes a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}

// Available returns the tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	return r.limiter.Tokens()
}

// RateLimitedProvider wraps an AIProvider with rate limiting.
type RateLimitedProvider struct {
	provider AIProvider
	limiter  *RateLimiter
}

// NewRateLimitedProvider throttles calls to provider.
func NewRateLimitedProvider(provider AIProvider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  NewRateLimiter(cfg),
	}
}

// Translate waits for a token, then calls the wrapped provider.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Message: "waiting for rate limit", Cause: err}
	}

	return p.provider.Translate(ctx, req)
}

// Limiter returns the shared limiter.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}

// RateLimitedObjectStore throttles object store reads and writes, for buckets
// that bill or throttle per request. Presigning and URL building are local and not limited.
type RateLimitedObjectStore struct {
	objects ObjectStore
	limiter *RateLimiter
}

// NewRateLimitedObjectStore wraps objects with rate limiting.
func NewRateLimitedObjectStore(objects ObjectStore, cfg RateLimitConfig) *RateLimitedObjectStore {
	return &RateLimitedObjectStore{
		objects: objects,
		limiter: NewRateLimiter(cfg),
	}
}

func (s *RateLimitedObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &StoreError{Op: "get", Key: key, Cause: err}
	}
	return s.objects.Get(ctx, key)
}

func (s *RateLimitedObjectStore) Save(ctx context.Context, key string, body []byte, contentType string, visibility Visibility) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &StoreError{Op: "save", Key: key, Cause: err}
	}
	return s.objects.Save(ctx, key, body, contentType, visibility)
}

func (s *RateLimitedObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &StoreError{Op: "list", Cause: err}
	}
	return s.objects.List(ctx, prefix)
}

func (s *RateLimitedObjectStore) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.objects.DownloadURL(ctx, key)
}

func (s *RateLimitedObjectStore) UploadURL(ctx context.Context, key, contentType string, visibility Visibility, expires time.Duration) (string, error) {
	return s.objects.UploadURL(ctx, key, contentType, visibility, expires)
}

// Limiter returns the shared limiter.
func (s *RateLimitedObjectStore) Limiter() *RateLimiter {
	return s.limiter
}

var _ ObjectStore = (*RateLimitedObjectStore)(nil)
