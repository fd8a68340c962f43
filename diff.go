package gointl

import "sort"

// LangpackDiff describes how a target langpack relates to its source, usually
// the fallback language's langpack for the same namespace. All key lists are sorted.
type LangpackDiff struct {
	// Missing holds source keys absent from the target.
	Missing []string

	// Untranslated holds keys present in the target with an empty value
	// while the source has a value.
	Untranslated []string

	// Orphaned holds target keys the source no longer has.
	Orphaned []string

	// Translated holds source keys with a non-empty value in the target.
	Translated []string
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Missing      int
	Untranslated int
	Orphaned     int
	Translated   int
}

// Stats returns summary statistics for the diff.
func (d *LangpackDiff) Stats() DiffStats {
	return DiffStats{
		Missing:      len(d.Missing),
		Untranslated: len(d.Untranslated),
		Orphaned:     len(d.Orphaned),
		Translated:   len(d.Translated),
	}
}

// HasGaps returns true if any source key lacks a translation.
func (d *LangpackDiff) HasGaps() bool {
	return len(d.Missing) > 0 || len(d.Untranslated) > 0
}

// NeedsTranslation returns the keys that need a translation, missing first.
func (d *LangpackDiff) NeedsTranslation() []string {
	result := make([]string, 0, len(d.Missing)+len(d.Untranslated))
	result = append(result, d.Missing...)
	result = append(result, d.Untranslated...)
	return result
}

// Coverage returns the share of source keys translated in the target, from 0 to 1.
// An empty source counts as fully covered.
func (d *LangpackDiff) Coverage() float64 {
	total := len(d.Translated) + len(d.Missing) + len(d.Untranslated)
	if total == 0 {
		return 1
	}
	return float64(len(d.Translated)) / float64(total)
}

// DiffLangpacks compares target against source.
// Keys whose source value is empty are registered but untranslated everywhere,
// so an empty target value for them is not reported.
func DiffLangpacks(source, target Langpack) *LangpackDiff {
	result := &LangpackDiff{}

	for key, sourceValue := range source {
		targetValue, exists := target[key]
		switch {
		case !exists:
			result.Missing = append(result.Missing, key)
		case targetValue != "":
			result.Translated = append(result.Translated, key)
		case sourceValue != "":
			result.Untranslated = append(result.Untranslated, key)
		}
	}

	for key := range target {
		if _, exists := source[key]; !exists {
			result.Orphaned = append(result.Orphaned, key)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Untranslated)
	sort.Strings(result.Orphaned)
	sort.Strings(result.Translated)

	return result
}
