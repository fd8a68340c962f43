package gointl

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	unavailable := &StoreError{Op: "get", Key: "app/en.json", Cause: errors.New("503 Slow Down"), Retryable: true}
	denied := &StoreError{Op: "get", Key: "app/en.json", Cause: errors.New("403 AccessDenied")}

	tests := []struct {
		name      string
		cfg       RetryConfig
		failures  int
		failWith  error
		wantCalls int
		wantErr   bool
	}{
		{"first try", fastRetry(3), 0, nil, 1, false},
		{"recovers after transient failures", fastRetry(3), 2, unavailable, 3, false},
		{"permanent failure is not retried", fastRetry(3), 5, denied, 1, true},
		{"gives up after max retries", fastRetry(2), 5, unavailable, 3, true},
		{"not found is final", fastRetry(3), 5, &StoreError{Op: "get", Cause: ErrNotFound, Retryable: true}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result, err := WithRetry(context.Background(), tt.cfg, func() (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.failWith
				}
				return `{"hello":"Hi"}`, nil
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("WithRetry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && result != `{"hello":"Hi"}` {
				t.Errorf("WithRetry() = %q", result)
			}
			if calls != tt.wantCalls {
				t.Errorf("Expected %d calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"retryable store error", &StoreError{Op: "get", Cause: errors.New("503"), Retryable: true}, true},
		{"non-retryable store error", &StoreError{Op: "get", Cause: errors.New("403")}, false},
		{"not found", &StoreError{Op: "get", Cause: ErrNotFound, Retryable: true}, false},
		{"mirror 503", &NetworkError{StatusCode: 503}, true},
		{"mirror 429", &NetworkError{StatusCode: 429}, true},
		{"mirror 404", &NetworkError{StatusCode: 404}, false},
		{"decode error", &DecodeError{Key: "app/en.json", Cause: errors.New("bad")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries 3, got %d", cfg.MaxRetries)
	}

	if cfg.BaseDelay != 1*time.Second {
		t.Errorf("Expected BaseDelay 1s, got %v", cfg.BaseDelay)
	}

	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("Expected MaxDelay 30s, got %v", cfg.MaxDelay)
	}
}

type failingProvider struct {
	failCount int
	callCount int
}

func (p *failingProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.callCount++
	if p.callCount <= p.failCount {
		return nil, &ProviderError{Message: "temporary failure", Retryable: true}
	}
	return []string{"Enregistrer"}, nil
}

func TestRetryableProvider(t *testing.T) {
	inner := &failingProvider{failCount: 2}
	p := NewRetryableProvider(inner, fastRetry(3))

	result, err := p.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"Save"},
		TargetLang: "fr",
	})
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if len(result) != 1 || result[0] != "Enregistrer" {
		t.Errorf("Unexpected result: %v", result)
	}
	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}

// flakyObjects fails the first failCount calls to Get and Save with a retryable error.
type flakyObjects struct {
	*fakeObjects
	failCount int
	calls     int
}

func (f *flakyObjects) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failCount {
		return nil, &StoreError{Op: "get", Key: key, Cause: errors.New("service unavailable"), Retryable: true}
	}
	return f.fakeObjects.Get(ctx, key)
}

func (f *flakyObjects) Save(ctx context.Context, key string, body []byte, contentType string, visibility Visibility) error {
	f.calls++
	if f.calls <= f.failCount {
		return &StoreError{Op: "save", Key: key, Cause: errors.New("service unavailable"), Retryable: true}
	}
	return f.fakeObjects.Save(ctx, key, body, contentType, visibility)
}

func TestRetryingObjectStore(t *testing.T) {
	inner := &flakyObjects{fakeObjects: newFakeObjects(), failCount: 2}
	inner.objects["app/en.json"] = `{"hello":"Hi"}`

	objects := NewRetryingObjectStore(inner, fastRetry(3), nil)

	body, err := objects.Get(context.Background(), "app/en.json")
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if string(body) != `{"hello":"Hi"}` {
		t.Errorf("Unexpected body: %s", body)
	}
	if inner.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.calls)
	}

	inner.calls = 0
	if err := objects.Save(context.Background(), "app/fr.json", []byte("{}"), ContentTypeJSON, VisibilityPublicRead); err != nil {
		t.Fatalf("Expected save to succeed after retries, got: %v", err)
	}
	if inner.objects["app/fr.json"] != "{}" {
		t.Error("save did not reach the inner store")
	}
}

func TestRetryingObjectStore_NotFoundIsNotRetried(t *testing.T) {
	inner := newFakeObjects()
	objects := NewRetryingObjectStore(inner, fastRetry(3), nil)

	_, err := objects.Get(context.Background(), "app/de.json")
	if !IsNotFound(err) {
		t.Fatalf("Expected not found, got: %v", err)
	}
	if inner.getCount() != 1 {
		t.Errorf("Expected 1 call, got %d", inner.getCount())
	}
}
