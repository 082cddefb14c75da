// Package normalize converts raw per-provider article payloads into canonical
// Article values. Normalization never fails: malformed fields degrade to
// documented defaults (empty strings, nil URLs, nil dates) instead of
// propagating errors, so one broken article can never poison a result set.
package normalize

import (
	"strings"
	"time"

	"newslens/internal/domain/entity"
)

// MaxFieldLength caps every free-text field to bound memory and storage.
const MaxFieldLength = 5000

// DefaultTitle is substituted when a provider payload has no usable title.
const DefaultTitle = "Untitled"

// RawSource is the loosely-typed source block of a raw provider payload.
type RawSource struct {
	Name string
	URL  string
}

// RawArticle is the provider-agnostic raw article shape. Each provider adapter
// maps its native response fields onto this struct before normalization; the
// field names a provider uses for title/content/image/date differ per API and
// that mapping lives with the provider, not here.
type RawArticle struct {
	Title       string
	Description string
	Content     string
	URL         string
	ImageURL    string
	PublishedAt string
	Source      *RawSource
}

// Article produces the canonical Article for a raw payload. providerID tags the
// origin provider and participates in ID derivation, so the same payload seen
// through two providers yields two distinct identities.
func Article(raw RawArticle, providerID string) entity.Article {
	title := SanitizeText(raw.Title)
	if title == "" {
		title = DefaultTitle
	}

	art := entity.Article{
		ID:          ArticleID(raw.URL, providerID, raw.Title),
		Title:       title,
		Description: SanitizeText(raw.Description),
		Content:     SanitizeText(raw.Content),
		URL:         sanitizeURL(raw.URL),
		ImageURL:    sanitizeURL(raw.ImageURL),
		PublishedAt: parseDate(raw.PublishedAt),
		Source:      sanitizeSource(raw.Source),
		Provider:    providerID,
		CreatedAt:   time.Now(),
	}
	return art
}

// SanitizeText trims the string, collapses internal whitespace runs (including
// newlines and tabs) to single spaces, and truncates to MaxFieldLength runes.
func SanitizeText(s string) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if runes := []rune(out); len(runes) > MaxFieldLength {
		out = string(runes[:MaxFieldLength])
	}
	return out
}

// sanitizeURL returns the trimmed URL when it parses as an absolute http(s)
// URL, nil otherwise. Bad URLs are coerced, never rejected.
func sanitizeURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if !entity.IsAbsoluteURL(trimmed) {
		return nil
	}
	return &trimmed
}

// sanitizeSource applies the defaulting rule for source blocks: a missing
// block is replaced wholesale with the unknown source, an existing block has
// each sub-field sanitized independently with the same defaults.
func sanitizeSource(raw *RawSource) entity.Source {
	if raw == nil {
		return entity.UnknownSource
	}
	src := entity.Source{
		Name: SanitizeText(raw.Name),
		URL:  sanitizeURL(raw.URL),
	}
	if src.Name == "" {
		src.Name = entity.UnknownSource.Name
	}
	return src
}

// dateLayouts are the publish-date formats seen across the provider APIs.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// parseDate parses a raw publish date. An absent or empty value yields nil.
// A value that matches none of the known layouts also yields nil rather than
// an error: an unparseable date on one article must not fail the whole fetch.
func parseDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}
