package gointl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Resolver answers "what is the text for this key in this language".
//
// A lookup reads the langpack for the requested language. A missing langpack
// is created empty, a missing key is optionally registered with an empty
// value, and in both cases, as for an empty value, resolution moves to the
// fallback language. At the fallback language the lookup is final: an empty
// value is returned as is and anything missing yields the diagnostic
// placeholder "namespace.key" (or "" when diagnostics are off).
//
// Langpack updates are read-modify-write without version checks. Two requests
// registering different keys in the same langpack at once can lose one of the
// registrations; two requests lazily creating the same langpack both write {}.
type Resolver struct {
	store     DocumentStore
	languages []string
	fallback  string
	showKeys  bool
	logger    *zap.Logger
	matcher   language.Matcher
	tagCodes  []string
}

// ResolverOption is a functional option for configuring the Resolver.
type ResolverOption func(*Resolver)

// WithFallback sets the fallback language. It defaults to the first supported language.
func WithFallback(lang string) ResolverOption {
	return func(r *Resolver) {
		r.fallback = lang
	}
}

// WithShowKeysWhereMissing controls whether unresolved keys render as
// "namespace.key" (the default) or as an empty string.
func WithShowKeysWhereMissing(show bool) ResolverOption {
	return func(r *Resolver) {
		r.showKeys = show
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver over store for the supported languages.
func NewResolver(store DocumentStore, languages []string, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		store:     store,
		languages: append([]string(nil), languages...),
		showKeys:  true,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.fallback == "" {
		if len(r.languages) == 0 {
			return nil, errors.New("gointl: at least one language or a fallback is required")
		}
		r.fallback = r.languages[0]
	}

	r.buildMatcher()
	return r, nil
}

// Resolve returns the text for key in namespace, resolved against lang with a
// single fallback hop. An empty lang resolves against the fallback language.
// Missing content never produces an error; I/O and decode failures do.
//
// Lazy creation and key registration are unversioned read-modify-write cycles.
// Concurrent registrations of different keys in one langpack can lose an update.
func (r *Resolver) Resolve(ctx context.Context, namespace, key, lang string, values map[string]string, addMissing bool) (string, error) {
	if lang == "" {
		lang = r.fallback
	}

	value, found, err := r.lookup(ctx, namespace, key, lang, addMissing)
	if err != nil {
		return "", err
	}
	if found {
		return Interpolate(value, values), nil
	}
	if r.IsFallback(lang) {
		return r.missing(namespace, key), nil
	}

	r.logger.Debug("falling back",
		zap.String("namespace", namespace),
		zap.String("key", key),
		zap.String("from", lang),
		zap.String("to", r.fallback),
	)

	value, found, err = r.lookup(ctx, namespace, key, r.fallback, addMissing)
	if err != nil {
		return "", err
	}
	if found {
		return Interpolate(value, values), nil
	}
	return r.missing(namespace, key), nil
}

// GetText resolves key against the language carried by ctx (see WithLanguage),
// or the fallback language when ctx carries none.
func (r *Resolver) GetText(ctx context.Context, namespace, key string, values map[string]string, addMissing bool) (string, error) {
	return r.Resolve(ctx, namespace, key, LanguageFromContext(ctx), values, addMissing)
}

// lookup reads one langpack. found is false when resolution should fall back
// (or terminate, at the fallback language).
func (r *Resolver) lookup(ctx context.Context, namespace, key, lang string, addMissing bool) (value string, found bool, err error) {
	pack, err := r.GetLangpack(ctx, namespace, lang, false)
	if IsNotFound(err) {
		r.logger.Debug("creating missing langpack",
			zap.String("namespace", namespace),
			zap.String("language", lang),
		)
		if err := r.SaveLangpack(ctx, namespace, lang, Langpack{}); err != nil {
			return "", false, fmt.Errorf("creating langpack %s: %w", LangpackKey(namespace, lang), err)
		}
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	value, ok := pack[key]
	if !ok {
		if addMissing {
			pack[key] = ""
			if err := r.SaveLangpack(ctx, namespace, lang, pack); err != nil {
				return "", false, fmt.Errorf("registering key %q in %s: %w", key, LangpackKey(namespace, lang), err)
			}
			r.logger.Info("registered missing key",
				zap.String("namespace", namespace),
				zap.String("language", lang),
				zap.String("key", key),
			)
		}
		return "", false, nil
	}

	// Empty means registered but untranslated; only the fallback language returns it as is.
	if value == "" && !r.IsFallback(lang) {
		return "", false, nil
	}

	return value, true, nil
}

func (r *Resolver) missing(namespace, key string) string {
	if r.showKeys {
		return namespace + "." + key
	}
	return ""
}

// GetLangpack reads the langpack for (namespace, lang) directly from the store.
func (r *Resolver) GetLangpack(ctx context.Context, namespace, lang string, forceOrigin bool) (Langpack, error) {
	return r.store.Get(ctx, LangpackKey(namespace, lang), forceOrigin)
}

// SaveLangpack overwrites the langpack for (namespace, lang).
func (r *Resolver) SaveLangpack(ctx context.Context, namespace, lang string, data Langpack) error {
	return r.store.Save(ctx, LangpackKey(namespace, lang), data)
}

// Localizer returns a Localizer bound to lang, for use within one request.
func (r *Resolver) Localizer(lang string) *Localizer {
	if lang == "" {
		lang = r.fallback
	}
	return &Localizer{resolver: r, language: lang}
}

// Store returns the underlying document store.
func (r *Resolver) Store() DocumentStore {
	return r.store
}

// Languages returns the supported languages.
func (r *Resolver) Languages() []string {
	return append([]string(nil), r.languages...)
}

// Fallback returns the fallback language.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// IsFallback reports whether lang is the fallback language.
func (r *Resolver) IsFallback(lang string) bool {
	return lang == r.fallback
}

// IsSupported reports whether lang is one of the supported languages.
func (r *Resolver) IsSupported(lang string) bool {
	for _, l := range r.languages {
		if l == lang {
			return true
		}
	}
	return lang == r.fallback
}

// Negotiate picks the supported language that best matches the given
// Accept-Language header values, or the fallback language when none match.
func (r *Resolver) Negotiate(acceptLanguage ...string) string {
	if r.matcher == nil {
		return r.fallback
	}

	var desired []language.Tag
	for _, header := range acceptLanguage {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err != nil {
			continue
		}
		desired = append(desired, tags...)
	}
	if len(desired) == 0 {
		return r.fallback
	}

	_, index, confidence := r.matcher.Match(desired...)
	if confidence == language.No {
		return r.fallback
	}
	return r.tagCodes[index]
}

// buildMatcher indexes the supported languages for Negotiate, fallback first so
// it is the matcher's default. Codes that are not valid BCP 47 tags are skipped.
func (r *Resolver) buildMatcher() {
	codes := append([]string{r.fallback}, r.languages...)

	seen := make(map[string]bool, len(codes))
	var tags []language.Tag
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true

		tag, err := language.Parse(ToBCP47(code))
		if err != nil {
			r.logger.Debug("language not negotiable", zap.String("language", code), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
		r.tagCodes = append(r.tagCodes, code)
	}

	if len(tags) > 0 {
		r.matcher = language.NewMatcher(tags)
	}
}

// Localizer resolves text for a single language. It is immutable and cheap to
// create, so each request can hold its own instead of sharing a mutable language.
type Localizer struct {
	resolver *Resolver
	language string
}

// GetText returns the text for key in namespace, interpolating values.
// When addMissing is true, a key absent from an existing langpack is registered with an empty value.
func (l *Localizer) GetText(ctx context.Context, namespace, key string, values map[string]string, addMissing bool) (string, error) {
	return l.resolver.Resolve(ctx, namespace, key, l.language, values, addMissing)
}

// Language returns the language this Localizer resolves against.
func (l *Localizer) Language() string {
	return l.language
}

// Direction returns "rtl" or "ltr" for this Localizer's language.
func (l *Localizer) Direction() string {
	return GetDirection(l.language)
}

// IsFallback reports whether this Localizer's language is the fallback language.
func (l *Localizer) IsFallback() bool {
	return l.resolver.IsFallback(l.language)
}
