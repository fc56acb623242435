// Package urls holds string helpers for URLs typed or shown in the browser.
//
// Functions that can fail return (value, ok) instead of an error: a URL that
// does not parse is simply "nothing to work with".
package urls

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// parseAbsolute parses rawURL and reports whether it is an absolute URL.
func parseAbsolute(rawURL string) (*url.URL, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

// CanonicalizeURL returns a file URL for input when it names an existing
// file or directory, otherwise input unchanged.
func CanonicalizeURL(input string) string {
	if _, err := os.Stat(input); err != nil {
		return input
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return input
	}
	return "file://" + filepath.ToSlash(abs)
}

// GetBaseURL returns the host of rawURL with its sub-domains removed,
// e.g. "a.b.example.com" becomes "example.com".
// The host is empty when the URL has none.
func GetBaseURL(rawURL string) (string, bool) {
	parsed, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}

	base := parsed.Hostname()
	for strings.Count(base, ".") > 1 {
		_, base, _ = strings.Cut(base, ".")
	}
	return base, true
}

// GetFilename returns the last path segment of rawURL, percent-decoded.
func GetFilename(rawURL string) (string, bool) {
	parsed, ok := parseAbsolute(rawURL)
	if !ok || parsed.Opaque != "" {
		return "", false
	}

	path := parsed.EscapedPath()
	segment := path[strings.LastIndex(path, "/")+1:]

	name, err := url.PathUnescape(segment)
	if err != nil || !utf8.ValidString(name) {
		return "", false
	}
	return name, true
}

// Host returns the host name of rawURL.
func Host(rawURL string) (string, bool) {
	parsed, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}
	host := parsed.Hostname()
	if host == "" {
		return "", false
	}
	return host, true
}

// IsURL reports whether input looks like something the user wants to visit
// rather than search for.
func IsURL(input string) bool {
	if _, ok := parseAbsolute(input); ok {
		return true
	}
	if _, err := url.Parse("http://" + input); err == nil &&
		strings.ContainsAny(input, ".:") {
		return true
	}
	return input == "localhost"
}
