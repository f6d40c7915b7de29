package observability

import (
	"strings"
	"unicode"
)

// bounded drops control characters, except tabs, and keeps at most limit runes so
// request data cannot forge log lines.
func bounded(value string, limit int) string {
	var b strings.Builder
	n := 0
	for _, r := range value {
		if unicode.IsControl(r) && r != '\t' {
			continue
		}
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// SanitizeRoute bounds a route pattern or path for logging. Empty routes log as "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return bounded(route, 180)
}

// SanitizeMethod bounds an HTTP method for logging.
func SanitizeMethod(method string) string {
	return bounded(method, 10)
}

// SanitizeQuery bounds a raw query string for logging.
func SanitizeQuery(query string) string {
	return bounded(query, 256)
}
