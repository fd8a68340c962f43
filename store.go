package gointl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMirrorTimeout = 10 * time.Second

	// Mirror bodies beyond maxMirrorBody are cut off; error bodies keep maxErrorBody bytes.
	maxMirrorBody = 8 << 20
	maxErrorBody  = 4 << 10
)

// Store is a read-through, write-refreshing langpack store.
//
// Reads try the cache, then the HTTP mirror when configured, then the object
// store, populating the cache on success. Writes go to the object store and
// then refresh the cache. Store and cache are not updated atomically: a failure
// between the two leaves them out of step until the next successful read or write.
//
// Cache failures are logged and treated as misses; they never fail a read or write.
type Store struct {
	objects      ObjectStore
	cache        CacheProvider
	cacheTTL     time.Duration
	basePrefix   string
	mirrorURL    string
	httpClient   *http.Client
	uploadExpiry time.Duration
	logger       *zap.Logger
}

// StoreOption is a functional option for configuring the Store.
type StoreOption func(*Store)

// WithBasePrefix sets the prefix prepended to every storage key, e.g. "langpacks/".
func WithBasePrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.basePrefix = prefix
	}
}

// WithMirror sets the base URL of an HTTP mirror serving the same objects.
func WithMirror(baseURL string) StoreOption {
	return func(s *Store) {
		s.mirrorURL = baseURL
	}
}

// WithCache sets the cache provider. Without one the store reads origin every time.
func WithCache(cache CacheProvider) StoreOption {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithCacheTTL sets how long cached langpacks live. Zero caches until invalidated.
func WithCacheTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.cacheTTL = ttl
	}
}

// WithHTTPClient sets the client used for mirror reads.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *Store) {
		s.httpClient = client
	}
}

// WithUploadExpiry overrides the lifetime of presigned upload URLs.
func WithUploadExpiry(expiry time.Duration) StoreOption {
	return func(s *Store) {
		s.uploadExpiry = expiry
	}
}

// WithStoreLogger sets the logger.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store over the given object store.
func NewStore(objects ObjectStore, opts ...StoreOption) *Store {
	s := &Store{
		objects:      objects,
		uploadExpiry: DefaultUploadURLExpiry,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: defaultMirrorTimeout}
	}

	return s
}

// Get returns the langpack stored under key.
// Absent documents return an error matching ErrNotFound; mirror failures return *NetworkError.
func (s *Store) Get(ctx context.Context, key string, forceOrigin bool) (Langpack, error) {
	if !forceOrigin {
		if data, ok := s.cacheFetch(ctx, key); ok {
			if l, err := decodeLangpack(key, data); err == nil {
				return l, nil
			}
			s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		}

		if s.mirrorURL != "" {
			return s.getFromMirror(ctx, key)
		}
	}

	return s.getFromOrigin(ctx, key)
}

func (s *Store) getFromMirror(ctx context.Context, key string) (Langpack, error) {
	url := s.mirrorLocation(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building mirror request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMirrorBody))
	if err != nil {
		return nil, fmt.Errorf("reading mirror response %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	l, err := decodeLangpack(key, body)
	if err != nil {
		return nil, err
	}

	s.cacheSave(ctx, key, l)
	return l, nil
}

func (s *Store) getFromOrigin(ctx context.Context, key string) (Langpack, error) {
	body, err := s.objects.Get(ctx, s.basePrefix+key)
	if err != nil {
		return nil, err
	}

	l, err := decodeLangpack(key, body)
	if err != nil {
		return nil, err
	}

	s.cacheSave(ctx, key, l)
	return l, nil
}

// Save overwrites the langpack under key and refreshes its cache entry.
// An empty langpack is written as {}.
func (s *Store) Save(ctx context.Context, key string, data Langpack) error {
	if data == nil {
		data = Langpack{}
	}

	body, err := encodeLangpack(data)
	if err != nil {
		return fmt.Errorf("encoding langpack %q: %w", key, err)
	}

	if err := s.objects.Save(ctx, s.basePrefix+key, body, ContentTypeJSON, VisibilityPublicRead); err != nil {
		return err
	}
	s.logger.Debug("langpack saved", zap.String("key", key), zap.Int("keys", len(data)))

	s.cacheSave(ctx, key, data)
	return nil
}

// Flush clears the whole cache, not the object store. It reports whether the clear succeeded.
func (s *Store) Flush(ctx context.Context) bool {
	if s.cache == nil {
		return true
	}

	if err := s.cache.FlushAll(ctx); err != nil {
		s.logger.Warn("cache flush failed", zap.Error(&CacheError{Op: "flush", Cause: err}))
		return false
	}
	return true
}

// List returns the keys of all langpacks under the base prefix, with the prefix stripped.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.objects.List(ctx, s.basePrefix)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, s.basePrefix) || !strings.Contains(key, DocumentSuffix) {
			continue
		}
		files = append(files, strings.TrimPrefix(key, s.basePrefix))
	}

	return files, nil
}

// DownloadURL returns a mirror URL when a mirror is configured and origin is not forced,
// otherwise the object store's own URL.
func (s *Store) DownloadURL(ctx context.Context, key string, forceOrigin bool) (string, error) {
	if !forceOrigin && s.mirrorURL != "" {
		return s.mirrorLocation(key), nil
	}
	return s.objects.DownloadURL(ctx, s.basePrefix+key)
}

// UploadURL invalidates the cached copy of key and returns a short-lived presigned
// upload URL for it. Reads between now and the upload completing see the old object.
func (s *Store) UploadURL(ctx context.Context, key string) (string, error) {
	s.cacheDelete(ctx, key)

	return s.objects.UploadURL(ctx, s.basePrefix+key, ContentTypeJSON, VisibilityPublicRead, s.uploadExpiry)
}

// BasePrefix returns the prefix prepended to storage keys.
func (s *Store) BasePrefix() string {
	return s.basePrefix
}

func (s *Store) mirrorLocation(key string) string {
	return strings.TrimSuffix(s.mirrorURL, "/") + "/" + s.basePrefix + key
}

func (s *Store) cacheFetch(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Fetch(ctx, key)
	if err != nil {
		s.logCacheError(ctx, &CacheError{Op: "fetch", Key: key, Cause: err})
		return nil, false
	}
	return data, ok
}

func (s *Store) cacheSave(ctx context.Context, key string, l Langpack) {
	if s.cache == nil {
		return
	}

	data, err := encodeLangpack(l)
	if err != nil {
		s.logCacheError(ctx, &CacheError{Op: "save", Key: key, Cause: err})
		return
	}

	if err := s.cache.Save(ctx, key, data, s.cacheTTL); err != nil {
		s.logCacheError(ctx, &CacheError{Op: "save", Key: key, Cause: err})
	}
}

func (s *Store) cacheDelete(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logCacheError(ctx, &CacheError{Op: "delete", Key: key, Cause: err})
	}
}

func (s *Store) logCacheError(ctx context.Context, err *CacheError) {
	// Cancellation is the caller's doing, not a cache fault.
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return
	}
	s.logger.Warn("cache unavailable, continuing without it", zap.Error(err))
}

// Verify Store implements DocumentStore
var _ DocumentStore = (*Store)(nil)
