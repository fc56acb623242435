package urls

import (
	"net/url"
	"strconv"
	"strings"
)

// Offset adds delta to the first number found in rawURL and returns the
// new URL. It is used to step through paginated pages.
//
// The query string is searched first, left to right, for a parameter whose
// whole value is an integer. When none is found the path is searched from
// the last segment backwards and the query is kept as is, including an
// empty one before a fragment. Opaque URLs such as mailto: only have their
// query searched. Numbers embedded in a larger segment, like "page6", are
// not detected.
//
// Values must fit in an int32; anything larger is not a number. The second
// return value is false when nothing could be offset.
func Offset(rawURL string, delta int32) (string, bool) {
	rawURL = strings.TrimRight(rawURL, "?")

	parsed, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}

	rest, fragment := rawURL, ""
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rest, fragment = rawURL[:i], rawURL[i:]
	}
	base, query, hasQuery := strings.Cut(rest, "?")

	if query != "" {
		if next, ok := offsetQuery(query, delta); ok {
			return base + "?" + next + fragment, true
		}
		if page, ok := Offset(base, delta); ok {
			return page + "?" + query + fragment, true
		}
		return "", false
	}

	if parsed.Opaque != "" {
		return "", false
	}
	origin, path := splitPath(base, parsed.Scheme)
	next, ok := offsetPath(path, delta)
	if !ok {
		return "", false
	}
	if hasQuery {
		next += "?"
	}
	return origin + next + fragment, true
}

// offsetQuery updates the first numeric parameter value of a raw query.
func offsetQuery(query string, delta int32) (string, bool) {
	params := strings.Split(query, "&")
	for i, param := range params {
		key, value, _ := strings.Cut(param, "=")
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		number, ok := parseInt32(value)
		if !ok {
			continue
		}
		params[i] = key + "=" + formatInt32(number+delta)
		return strings.Join(params, "&"), true
	}
	return "", false
}

// offsetPath updates the last numeric segment of an escaped path.
func offsetPath(path string, delta int32) (string, bool) {
	if path == "" {
		return "", false
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		number, ok := parseInt32(segments[i])
		if !ok {
			continue
		}
		segments[i] = formatInt32(number + delta)
		return "/" + strings.Join(segments, "/"), true
	}
	return "", false
}

// splitPath splits a URL without query or fragment into its
// scheme+authority prefix and its path.
func splitPath(base, scheme string) (origin, path string) {
	start := len(scheme) + 1
	if strings.HasPrefix(base[start:], "//") {
		start += 2
		if i := strings.IndexByte(base[start:], '/'); i >= 0 {
			start += i
		} else {
			start = len(base)
		}
	}
	return base[:start], base[start:]
}

func parseInt32(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

func formatInt32(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}
