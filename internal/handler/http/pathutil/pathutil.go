// Package pathutil provides URL path helpers shared by handlers and metrics.
package pathutil

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts and parses an integer ID from a URL path by stripping
// the given prefix. IDs must be positive.
func ExtractID(path, prefix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// pathPatterns maps dynamic routes to templates, most specific first.
// Pre-compiled at initialization.
var pathPatterns = []struct {
	pattern  *regexp.Regexp
	template string
}{
	{regexp.MustCompile(`^/api/articles/\d+/analyze$`), "/api/articles/:id/analyze"},
	{regexp.MustCompile(`^/api/articles/\d+$`), "/api/articles/:id"},
	{regexp.MustCompile(`^/api/providers/[A-Za-z0-9_-]+$`), "/api/providers/:name"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion, converting ID-carrying paths to template form.
// Static paths pass through unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
