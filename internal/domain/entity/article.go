// Package entity defines the core domain entities and validation logic for the application.
// It contains the canonical Article value produced by provider normalization, the
// AnalyzedArticle record persisted by the analysis pipeline, and domain-specific errors.
package entity

import "time"

// Source identifies the publication an article originated from.
// URL is nil when the provider did not report a usable source link.
type Source struct {
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

// UnknownSource is the default used when a provider payload carries no
// usable source information.
var UnknownSource = Source{Name: "Unknown", URL: nil}

// Article is the canonical article value produced once per raw provider payload.
// It is immutable after normalization: fields are sanitized, URL-typed fields are
// nil unless they parsed as absolute URLs, and ID is a deterministic function of
// (URL, Provider, Title) so repeated normalization of the same payload always
// yields the same identity.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	URL         *string    `json:"url"`
	ImageURL    *string    `json:"urlToImage"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      Source     `json:"source"`
	Provider    string     `json:"provider"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AnalyzedArticle is an article enriched with LLM analysis results and stored
// for later retrieval. Unlike search results, which are transient and rebuilt
// per query, analyzed articles are the only article data the system persists.
type AnalyzedArticle struct {
	ID          int64
	ArticleID   string
	Title       string
	URL         string
	Provider    string
	Summary     string
	Sentiment   string
	Topics      []string
	PublishedAt *time.Time
	CreatedAt   time.Time
}
