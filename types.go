package gointl

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

const (
	// DocumentSuffix is the file suffix of every langpack object.
	DocumentSuffix = ".json"

	// ContentTypeJSON is the content type langpacks are written and uploaded with.
	ContentTypeJSON = "application/json"

	// DefaultUploadURLExpiry is the lifetime of a presigned upload URL.
	DefaultUploadURLExpiry = 5 * time.Minute
)

// Visibility is the canned access policy applied to a stored object.
type Visibility string

const (
	// VisibilityPublicRead makes langpacks readable by anyone, as mirrors expect.
	VisibilityPublicRead Visibility = "public-read"
	// VisibilityPrivate restricts reads to authenticated callers.
	VisibilityPrivate Visibility = "private"
)

// Langpack maps translation keys to values for one namespace in one language.
// An empty value means the key is registered but not yet translated.
type Langpack map[string]string

// Clone returns a copy that can be modified without touching the receiver.
func (l Langpack) Clone() Langpack {
	out := make(Langpack, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// encodeLangpack encodes a langpack, writing an empty or nil langpack as {}.
func encodeLangpack(l Langpack) ([]byte, error) {
	if len(l) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(l)
}

// decodeLangpack decodes a JSON object of strings. A JSON null or an empty
// array ([], as older clients wrote empty langpacks) decodes to an empty langpack.
func decodeLangpack(key string, data []byte) (Langpack, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var empty []json.RawMessage
		if err := json.Unmarshal(trimmed, &empty); err == nil && len(empty) == 0 {
			return Langpack{}, nil
		}
	}

	var l Langpack
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &DecodeError{Key: key, Cause: err}
	}
	if l == nil {
		l = Langpack{}
	}
	return l, nil
}

// ObjectStore is the primary keyed document store (S3 or compatible).
// Keys passed in are full storage keys, base prefix included.
// Implementations surface failures without retrying; Get wraps ErrNotFound for absent objects.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, body []byte, contentType string, visibility Visibility) error
	List(ctx context.Context, prefix string) ([]string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	UploadURL(ctx context.Context, key, contentType string, visibility Visibility, expires time.Duration) (string, error)
}

// CacheProvider is the cache in front of the object store.
// Fetch returns (nil, false, nil) on a miss. A zero TTL caches until invalidated.
type CacheProvider interface {
	Fetch(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	FlushAll(ctx context.Context) error
}

// DocumentStore is what the Resolver reads and writes langpacks through.
// Keys are relative to the store's base prefix, e.g. "app/en.json".
type DocumentStore interface {
	Get(ctx context.Context, key string, forceOrigin bool) (Langpack, error)
	Save(ctx context.Context, key string, data Langpack) error
	Flush(ctx context.Context) bool
	List(ctx context.Context) ([]string, error)
	DownloadURL(ctx context.Context, key string, forceOrigin bool) (string, error)
	UploadURL(ctx context.Context, key string) (string, error)
}

// TranslationStyle controls the tone and formality of machine translations.
type TranslationStyle string

const (
	// StyleFormal uses formal, professional language.
	StyleFormal TranslationStyle = "formal"
	// StyleNeutral uses a neutral tone suitable for most interfaces.
	StyleNeutral TranslationStyle = "neutral"
	// StyleCasual uses casual, conversational language.
	StyleCasual TranslationStyle = "casual"
	// StyleMarketing uses persuasive, engaging language.
	StyleMarketing TranslationStyle = "marketing"
	// StyleTechnical uses precise, technical language.
	StyleTechnical TranslationStyle = "technical"
)

// AIProvider is the interface for machine translation backends used by the Filler.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts         []string
	TargetLang    string
	SourceLang    string
	ExcludedTerms []string
	Context       string
	TextContexts  []string // One hint per text, e.g. the translation key
	Glossary      map[string]string
	Style         TranslationStyle
}
