package gointl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  RateLimitConfig
		want float64
	}{
		{"explicit burst", RateLimitConfig{RequestsPerMinute: 60, BurstSize: 5}, 5},
		{"burst defaults to rpm", RateLimitConfig{RequestsPerMinute: 30}, 30},
		{"zero config", RateLimitConfig{}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRateLimiter(tt.cfg).Available(); got != tt.want {
				t.Errorf("Available() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	if limiter.TryAcquire() {
		t.Error("Expected acquire to fail once the burst is spent")
	}

	available := limiter.Available()
	if available < -0.1 || available > 0.1 {
		t.Errorf("Expected ~0 available, got %f", available)
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	// 10 tokens per second
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 1})

	limiter.TryAcquire()
	if limiter.TryAcquire() {
		t.Fatal("Expected acquire to fail after drain")
	}

	time.Sleep(150 * time.Millisecond)

	if !limiter.TryAcquire() {
		t.Error("Expected acquire to succeed after refill")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 1})
	limiter.TryAcquire()

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}

func TestRateLimiter_WaitDeadline(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	limiter.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Expected error when the next token is past the deadline")
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 10})

	var wg sync.WaitGroup
	var acquired atomic.Int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire() {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := acquired.Load(); got != 10 {
		t.Errorf("Expected 10 acquired, got %d", got)
	}
}

type countingProvider struct {
	calls atomic.Int64
}

func (p *countingProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.calls.Add(1)
	return req.Texts, nil
}

func TestRateLimitedProvider(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 600, BurstSize: 2})
	ctx := context.Background()
	req := TranslateRequest{Texts: []string{"Save"}, TargetLang: "fr"}

	for i := 0; i < 2; i++ {
		if _, err := p.Translate(ctx, req); err != nil {
			t.Fatalf("Translate %d failed: %v", i, err)
		}
	}

	start := time.Now()
	if _, err := p.Translate(ctx, req); err != nil {
		t.Fatalf("Third translate failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected a rate limit wait, returned in %v", elapsed)
	}
	if inner.calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.calls.Load())
	}
}

func TestRateLimitedProvider_Deadline(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	p.Translate(context.Background(), TranslateRequest{Texts: []string{"Save"}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Translate(ctx, TranslateRequest{Texts: []string{"Cancel"}})

	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Retryable {
		t.Fatalf("Expected non-retryable ProviderError, got: %v", err)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("throttled call must not reach the provider, got %d calls", inner.calls.Load())
	}
}

func TestRateLimitedObjectStore(t *testing.T) {
	inner := newFakeObjects()
	inner.objects["app/en.json"] = "{}"

	objects := NewRateLimitedObjectStore(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})

	if _, err := objects.Get(context.Background(), "app/en.json"); err != nil {
		t.Fatalf("First get failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := objects.Save(ctx, "app/fr.json", []byte("{}"), ContentTypeJSON, VisibilityPublicRead)
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "save" {
		t.Fatalf("Expected save StoreError, got: %v", err)
	}
	if IsRetryable(err) {
		t.Error("a throttled save should not be retryable")
	}
	if len(inner.saves) != 0 {
		t.Error("throttled save must not reach the store")
	}

	if _, err := objects.List(ctx, ""); err == nil {
		t.Error("Expected throttled list to fail")
	}

	// URL building is not throttled
	if _, err := objects.DownloadURL(ctx, "app/en.json"); err != nil {
		t.Errorf("DownloadURL failed: %v", err)
	}
}
