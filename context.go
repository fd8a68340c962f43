package gointl

import "context"

type languageKey struct{}

// WithLanguage returns a context carrying the language for the current request.
func WithLanguage(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, languageKey{}, language)
}

// LanguageFromContext returns the request language, or "" if none was set.
func LanguageFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(languageKey{}).(string)
	return lang
}
