package gointl

import "strings"

// LangpackKey returns the store-relative key of a langpack: "<namespace>/<language>.json".
func LangpackKey(namespace, language string) string {
	return namespace + "/" + language + DocumentSuffix
}

// StorageKey returns the full object key: basePrefix + LangpackKey(namespace, language).
func StorageKey(basePrefix, namespace, language string) string {
	return basePrefix + LangpackKey(namespace, language)
}

// ParseLangpackKey splits a store-relative key back into namespace and language.
// The language is the last path segment, so namespaces may contain slashes but languages may not.
func ParseLangpackKey(key string) (namespace, language string, ok bool) {
	if !strings.HasSuffix(key, DocumentSuffix) {
		return "", "", false
	}
	trimmed := strings.TrimSuffix(key, DocumentSuffix)

	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return "", "", false
	}
	return trimmed[:i], trimmed[i+1:], true
}
