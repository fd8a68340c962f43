package gointl

import (
	"errors"
	"fmt"
	"testing"
)

func TestNetworkError(t *testing.T) {
	err := &NetworkError{URL: "https://cdn.example.com/app/en.json", StatusCode: 503, Body: "unavailable"}

	expected := "mirror request https://cdn.example.com/app/en.json failed with status 503: unavailable"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	// A 404 from the mirror is still a transport failure
	notFound := &NetworkError{URL: "https://cdn.example.com/x", StatusCode: 404}
	if IsNotFound(notFound) {
		t.Error("NetworkError must not match ErrNotFound")
	}
	if notFound.Error() != "mirror request https://cdn.example.com/x failed with status 404" {
		t.Errorf("unexpected error message: %s", notFound.Error())
	}
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &DecodeError{Key: "app/en.json", Cause: cause}

	if err.Error() != `decode langpack "app/en.json": unexpected end of JSON input` {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if IsNotFound(err) {
		t.Error("DecodeError must not match ErrNotFound")
	}
}

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: "get", Key: "app/en.json", Cause: ErrNotFound}

	if err.Error() != `store error: get "app/en.json": langpack not found` {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !IsNotFound(err) {
		t.Error("StoreError wrapping ErrNotFound should match IsNotFound")
	}

	// Without key
	err2 := &StoreError{Op: "list", Cause: errors.New("timeout")}
	if err2.Error() != "store error: list: timeout" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Op: "fetch", Key: "app/en.json", Cause: errors.New("connection refused")}

	if err.Error() != `cache error: fetch "app/en.json": connection refused` {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	err2 := &CacheError{Op: "flush", Cause: errors.New("connection refused")}
	if err2.Error() != "cache error: flush: connection refused" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Message: "rate limited", Retryable: true}

	if err.Error() != "provider error: rate limited" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !err.Retryable {
		t.Error("error should be retryable")
	}
}

func TestCountMismatchError(t *testing.T) {
	err := &CountMismatchError{Expected: 5, Got: 3}

	expected := "translation count mismatch: expected 5, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}
}

func TestIsNotFound_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", ErrNotFound)
	if !IsNotFound(err) {
		t.Error("wrapped ErrNotFound should match")
	}
	if IsNotFound(nil) {
		t.Error("nil is not ErrNotFound")
	}
}
