package gointl

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// DefaultFillBatchSize is the number of strings sent to the provider per request.
const DefaultFillBatchSize = 50

// Filler machine-translates the gaps in a langpack from the fallback language.
//
// A fill reads both langpacks from origin, translates every key that is
// missing or untranslated in the target, and writes the target once. A
// translation that drops or invents a {placeholder} is discarded and the key
// is left for a human. Source keys with an empty value are registered empty.
type Filler struct {
	resolver      *Resolver
	provider      AIProvider
	context       string
	glossary      map[string]string
	style         TranslationStyle
	excludedTerms []string
	batchSize     int
	pruneOrphans  bool
	logger        *zap.Logger
}

// FillerOption is a functional option for configuring the Filler.
type FillerOption func(*Filler)

// WithTranslationContext sets the global translation context, e.g. "checkout flow of a bike shop".
func WithTranslationContext(ctx string) FillerOption {
	return func(f *Filler) {
		f.context = ctx
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) FillerOption {
	return func(f *Filler) {
		f.glossary = glossary
	}
}

// WithStyle sets the translation style/register.
func WithStyle(style TranslationStyle) FillerOption {
	return func(f *Filler) {
		f.style = style
	}
}

// WithExcludedTerms sets terms that should not be translated.
func WithExcludedTerms(terms []string) FillerOption {
	return func(f *Filler) {
		f.excludedTerms = terms
	}
}

// WithBatchSize sets how many strings go into one provider request.
func WithBatchSize(n int) FillerOption {
	return func(f *Filler) {
		f.batchSize = n
	}
}

// WithPruneOrphans removes target keys the fallback langpack no longer has.
func WithPruneOrphans(prune bool) FillerOption {
	return func(f *Filler) {
		f.pruneOrphans = prune
	}
}

// WithFillerLogger sets the logger.
func WithFillerLogger(logger *zap.Logger) FillerOption {
	return func(f *Filler) {
		f.logger = logger
	}
}

// NewFiller creates a Filler that reads and writes through resolver.
func NewFiller(resolver *Resolver, provider AIProvider, opts ...FillerOption) *Filler {
	f := &Filler{
		resolver:  resolver,
		provider:  provider,
		style:     StyleNeutral,
		batchSize: DefaultFillBatchSize,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.batchSize <= 0 {
		f.batchSize = DefaultFillBatchSize
	}

	return f
}

// FillResult reports what a fill changed.
type FillResult struct {
	Namespace string `json:"namespace"`
	Language  string `json:"language"`
	// Translated holds keys that received a machine translation.
	Translated []string `json:"translated"`
	// Registered holds keys added with an empty value because the source is empty too.
	Registered []string `json:"registered,omitempty"`
	// Skipped holds keys whose translation failed the placeholder check.
	Skipped []string `json:"skipped,omitempty"`
	// Pruned holds orphaned keys removed from the target.
	Pruned []string `json:"pruned,omitempty"`
	// Saved is true when the target langpack was written.
	Saved bool `json:"saved"`
}

// Changed reports whether the fill modified the target langpack.
func (r *FillResult) Changed() bool {
	return len(r.Translated) > 0 || len(r.Registered) > 0 || len(r.Pruned) > 0
}

// Fill translates the gaps of (namespace, lang) from the fallback language.
// Filling the fallback language itself is a no-op.
func (f *Filler) Fill(ctx context.Context, namespace, lang string) (*FillResult, error) {
	result := &FillResult{Namespace: namespace, Language: lang}
	fallback := f.resolver.Fallback()
	if lang == fallback {
		return result, nil
	}

	source, err := f.resolver.GetLangpack(ctx, namespace, fallback, true)
	if err != nil {
		return nil, fmt.Errorf("reading source langpack %s: %w", LangpackKey(namespace, fallback), err)
	}

	target, err := f.resolver.GetLangpack(ctx, namespace, lang, true)
	if IsNotFound(err) {
		target = Langpack{}
	} else if err != nil {
		return nil, fmt.Errorf("reading target langpack %s: %w", LangpackKey(namespace, lang), err)
	}

	diff := DiffLangpacks(source, target)

	var pending []string
	for _, key := range diff.NeedsTranslation() {
		if source[key] == "" {
			target[key] = ""
			result.Registered = append(result.Registered, key)
			continue
		}
		pending = append(pending, key)
	}

	for batch := range slices.Chunk(pending, f.batchSize) {
		translations, err := f.translateBatch(ctx, source, batch, lang)
		if err != nil {
			return nil, err
		}

		for i, key := range batch {
			if !samePlaceholders(source[key], translations[i]) {
				f.logger.Warn("discarding translation with mismatched placeholders",
					zap.String("namespace", namespace),
					zap.String("language", lang),
					zap.String("key", key),
				)
				result.Skipped = append(result.Skipped, key)
				continue
			}
			target[key] = translations[i]
			result.Translated = append(result.Translated, key)
		}
	}

	if f.pruneOrphans {
		for _, key := range diff.Orphaned {
			delete(target, key)
			result.Pruned = append(result.Pruned, key)
		}
	}

	if !result.Changed() {
		return result, nil
	}

	if err := f.resolver.SaveLangpack(ctx, namespace, lang, target); err != nil {
		return nil, fmt.Errorf("saving langpack %s: %w", LangpackKey(namespace, lang), err)
	}
	result.Saved = true

	f.logger.Info("langpack filled",
		zap.String("namespace", namespace),
		zap.String("language", lang),
		zap.Int("translated", len(result.Translated)),
		zap.Int("registered", len(result.Registered)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("pruned", len(result.Pruned)),
	)

	return result, nil
}

// FillAll fills every supported language of namespace except the fallback, in order.
// It stops at the first error and returns the results gathered so far.
func (f *Filler) FillAll(ctx context.Context, namespace string) ([]*FillResult, error) {
	var results []*FillResult
	for _, lang := range f.resolver.Languages() {
		if f.resolver.IsFallback(lang) {
			continue
		}
		result, err := f.Fill(ctx, namespace, lang)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// translateBatch sends one provider request. Keys go along as per-text context.
func (f *Filler) translateBatch(ctx context.Context, source Langpack, keys []string, lang string) ([]string, error) {
	texts := make([]string, len(keys))
	for i, key := range keys {
		texts[i] = source[key]
	}

	translations, err := f.provider.Translate(ctx, TranslateRequest{
		Texts:         texts,
		TargetLang:    lang,
		SourceLang:    f.resolver.Fallback(),
		ExcludedTerms: f.excludedTerms,
		Context:       f.context,
		TextContexts:  keys,
		Glossary:      f.glossary,
		Style:         f.style,
	})
	if err != nil {
		return nil, err
	}

	if len(translations) != len(texts) {
		return nil, &CountMismatchError{Expected: len(texts), Got: len(translations)}
	}

	return translations, nil
}

// samePlaceholders reports whether both strings use the same set of placeholder names.
func samePlaceholders(source, translated string) bool {
	want := PlaceholderNames(source)
	got := PlaceholderNames(translated)
	slices.Sort(want)
	slices.Sort(got)
	return slices.Equal(want, got)
}
