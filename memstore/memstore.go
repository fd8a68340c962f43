// Package memstore provides an in-memory gointl.ObjectStore for tests and local development.
package memstore

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/gointl"
)

// Object is a stored object with the metadata it was written with.
type Object struct {
	Body        []byte
	ContentType string
	Visibility  gointl.Visibility
}

// Store is a thread-safe map-backed object store.
type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
	writes  []string
}

// New creates an empty store. URLs it hands out are rooted at baseURL.
func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "mem://langpacks"
	}
	return &Store{
		objects: make(map[string]Object),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Get returns the object body, or an error wrapping gointl.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &gointl.StoreError{Op: "get", Key: key, Cause: err}
	}

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, &gointl.StoreError{Op: "get", Key: key, Cause: gointl.ErrNotFound}
	}
	return append([]byte(nil), obj.Body...), nil
}

// Save overwrites the object under key.
func (s *Store) Save(ctx context.Context, key string, body []byte, contentType string, visibility gointl.Visibility) error {
	if err := ctx.Err(); err != nil {
		return &gointl.StoreError{Op: "save", Key: key, Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = Object{
		Body:        append([]byte(nil), body...),
		ContentType: contentType,
		Visibility:  visibility,
	}
	s.writes = append(s.writes, key)
	return nil
}

// List returns all keys starting with prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &gointl.StoreError{Op: "list", Cause: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// DownloadURL returns baseURL/key.
func (s *Store) DownloadURL(_ context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}

// UploadURL returns baseURL/key with the upload constraints encoded as query parameters.
// Nothing is signed; the URL only records what a real store would bind.
func (s *Store) UploadURL(_ context.Context, key, contentType string, visibility gointl.Visibility, expires time.Duration) (string, error) {
	q := url.Values{}
	q.Set("content-type", contentType)
	q.Set("acl", string(visibility))
	q.Set("expires", fmt.Sprintf("%d", int(expires.Seconds())))
	return s.baseURL + "/" + key + "?" + q.Encode(), nil
}

// Put stores body as a public JSON object without recording a write. Useful for seeding.
func (s *Store) Put(key string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{
		Body:        []byte(body),
		ContentType: gointl.ContentTypeJSON,
		Visibility:  gointl.VisibilityPublicRead,
	}
}

// Object returns the object stored under key.
func (s *Store) Object(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Writes returns the keys written through Save, in order.
func (s *Store) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.writes...)
}

// Verify Store implements gointl.ObjectStore
var _ gointl.ObjectStore = (*Store)(nil)
