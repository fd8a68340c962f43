package gointl

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
// Only errors for which IsRetryable reports true are retried.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable.
// Absent langpacks, decode failures and context errors never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsNotFound(err) {
		return false
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Retryable
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode == http.StatusTooManyRequests || netErr.StatusCode >= 500
	}

	return false
}

// RetryableProvider wraps an AIProvider with retry logic.
type RetryableProvider struct {
	provider AIProvider
	config   RetryConfig
}

// NewRetryableProvider creates a new provider with retry logic.
func NewRetryableProvider(provider AIProvider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// Translate implements AIProvider with retry logic.
func (p *RetryableProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return WithRetry(ctx, p.config, func() ([]string, error) {
		return p.provider.Translate(ctx, req)
	})
}

// RetryingObjectStore retries transient object store failures.
// Langpack writes are whole-document overwrites, so repeating a Save is safe.
type RetryingObjectStore struct {
	objects ObjectStore
	config  RetryConfig
	logger  *zap.Logger
}

// NewRetryingObjectStore wraps objects with retry logic.
func NewRetryingObjectStore(objects ObjectStore, cfg RetryConfig, logger *zap.Logger) *RetryingObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingObjectStore{objects: objects, config: cfg, logger: logger}
}

func (s *RetryingObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	attempt := 0
	return WithRetry(ctx, s.config, func() ([]byte, error) {
		attempt++
		s.logAttempt("get", key, attempt)
		return s.objects.Get(ctx, key)
	})
}

func (s *RetryingObjectStore) Save(ctx context.Context, key string, body []byte, contentType string, visibility Visibility) error {
	attempt := 0
	_, err := WithRetry(ctx, s.config, func() (struct{}, error) {
		attempt++
		s.logAttempt("save", key, attempt)
		return struct{}{}, s.objects.Save(ctx, key, body, contentType, visibility)
	})
	return err
}

func (s *RetryingObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	return WithRetry(ctx, s.config, func() ([]string, error) {
		return s.objects.List(ctx, prefix)
	})
}

func (s *RetryingObjectStore) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.objects.DownloadURL(ctx, key)
}

func (s *RetryingObjectStore) UploadURL(ctx context.Context, key, contentType string, visibility Visibility, expires time.Duration) (string, error) {
	return s.objects.UploadURL(ctx, key, contentType, visibility, expires)
}

func (s *RetryingObjectStore) logAttempt(op, key string, attempt int) {
	if attempt > 1 {
		s.logger.Debug("retrying object store call",
			zap.String("op", op),
			zap.String("key", key),
			zap.Int("attempt", attempt),
		)
	}
}

var _ ObjectStore = (*RetryingObjectStore)(nil)
