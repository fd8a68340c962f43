package gointl

import (
	"regexp"
	"strings"
)

// placeholderPattern matches "{name}" with optional spaces inside the braces.
var placeholderPattern = regexp.MustCompile(`\{ *([a-zA-Z0-9\-_.]+) *\}`)

// Interpolate replaces each {name} placeholder in value with values[name].
// Placeholders without a value are replaced by their bare name, braces removed.
func Interpolate(value string, values map[string]string) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))

	last := 0
	for _, m := range matches {
		name := value[m[2]:m[3]]
		b.WriteString(value[last:m[0]])
		if v, ok := values[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(name)
		}
		last = m[1]
	}
	b.WriteString(value[last:])

	return b.String()
}

// PlaceholderNames returns the distinct placeholder names in value, in order of first use.
func PlaceholderNames(value string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
