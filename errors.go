package gointl

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a langpack document does not exist in the object store.
// Store implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("langpack not found")

// NetworkError indicates the HTTP mirror answered with a non-200 status.
// It is a transport failure and never matches ErrNotFound, not even for a 404.
type NetworkError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *NetworkError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("mirror request %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("mirror request %s failed with status %d", e.URL, e.StatusCode)
}

// DecodeError indicates a langpack body that is not a JSON object of strings.
type DecodeError struct {
	Key   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode langpack %q: %v", e.Key, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// StoreError indicates an object store operation failure.
type StoreError struct {
	Op        string // "get", "save", "list", "upload-url", ...
	Key       string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store error: %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Op    string
	Key   string
	Cause error
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache error: %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("cache error: %s: %v", e.Op, e.Cause)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the AI returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}

// IsNotFound reports whether err means the langpack document is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
