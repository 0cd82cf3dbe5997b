// Package linkurl holds the URL normalization shared by the link store and its
// client, plus the loose syntactic shape check applied before persisting.
package linkurl

import (
	"regexp"
	"strings"
)

// DefaultScheme is prepended to URLs entered without an http(s) scheme.
const DefaultScheme = "https://"

// shape accepts an optional http(s) scheme, a dot separated host ending in a
// 2-6 letter label, and an optional path. It does not accept query strings or
// fragments and never resolves the host.
var shape = regexp.MustCompile(`(?i)^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// HasScheme reports whether raw already starts with http:// or https://.
func HasScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Normalize trims raw and prefixes it with https:// when it has no scheme.
// Blank input stays blank.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || HasScheme(trimmed) {
		return trimmed
	}
	return DefaultScheme + trimmed
}

// Valid reports whether u looks like a link worth storing.
func Valid(u string) bool {
	return shape.MatchString(u)
}
