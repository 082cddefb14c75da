// Package provider implements the news provider capability: adapters for the
// external news APIs, the shared option vocabulary they all validate against,
// and the registry that tracks which providers are configured.
//
// Every provider speaks a different wire dialect (field names, sort keys,
// pagination model), so each adapter owns a mapping table from the shared
// vocabulary to its native one and maps its native response shape onto
// normalize.RawArticle before handing articles to the normalizer.
package provider

import (
	"context"
	"strings"

	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
)

// Provider identifiers. The enumeration is closed: the registry only ever
// constructs these three.
const (
	GNews    = "gnews"
	NewsAPI  = "newsapi"
	NewsData = "newsdata"
)

// Shared sort vocabulary, validated before any provider call and translated
// per provider via its mapping table.
const (
	SortRelevance   = "relevance"
	SortDate        = "date"
	SortPublishTime = "publish-time"
)

// SortKeys is the closed sort vocabulary.
var SortKeys = []string{SortRelevance, SortDate, SortPublishTime}

// SearchInKeys is the closed search-target vocabulary.
var SearchInKeys = []string{"title", "description", "content"}

// Categories is the closed headline category vocabulary.
var Categories = []string{"general", "business", "entertainment", "health", "science", "sports", "technology"}

// SearchQuery carries the options for one search fetch. Max is the number of
// rows the caller actually needs; the reconciler computes it from page/limit
// and the provider's capability, providers never see page numbers on the
// search path.
type SearchQuery struct {
	Query    string
	Max      int
	Country  string
	Lang     string
	SortBy   string
	SearchIn string // comma-separated subset of SearchInKeys
	From     string // ISO 8601 date, optional
	To       string // ISO 8601 date, optional
}

// HeadlinesQuery carries the options for one top-headlines call. Headlines are
// not cached, so page/limit are forwarded to the provider natively.
type HeadlinesQuery struct {
	Category string
	Country  string
	Lang     string
	Page     int
	Limit    int
}

// Result is the provider-normalized response: articles have already passed
// through the normalizer and are tagged with the origin provider.
// TotalResults is the provider-reported total, which may be approximate or
// zero for providers that do not report one.
type Result struct {
	Status       string
	TotalResults int
	Articles     []entity.Article
}

// Provider is the capability every news source adapter implements.
type Provider interface {
	// Name returns the stable provider identifier.
	Name() string

	// Ready reports whether the provider has a usable credential.
	// Calls on a provider that is not ready fail with a configuration
	// error before any network interaction.
	Ready() bool

	// Ceiling returns the hard upstream cap on total results for any query,
	// or 0 for providers with native pagination. A non-zero ceiling means
	// the provider has no true pagination: one fetch of the ceiling amount
	// retrieves everything that will ever exist for the query.
	Ceiling() int

	// SearchNews performs one search fetch against the external API.
	SearchNews(ctx context.Context, q SearchQuery) (*Result, error)

	// TopHeadlines performs one top-headlines call against the external API.
	TopHeadlines(ctx context.Context, q HeadlinesQuery) (*Result, error)
}

// ValidateSearchQuery checks the enumerated option values against the closed
// vocabularies. Invalid values are a validation error and are never forwarded
// upstream.
func ValidateSearchQuery(q SearchQuery) error {
	if q.SortBy != "" && !contains(SortKeys, q.SortBy) {
		return apperr.Validation("invalid sortBy '%s'. Valid values: %s", q.SortBy, strings.Join(SortKeys, ", "))
	}
	if q.SearchIn != "" {
		for _, field := range strings.Split(q.SearchIn, ",") {
			if !contains(SearchInKeys, strings.TrimSpace(field)) {
				return apperr.Validation("invalid searchIn '%s'. Valid values: %s", field, strings.Join(SearchInKeys, ", "))
			}
		}
	}
	return nil
}

// ValidateHeadlinesQuery checks the category against the closed vocabulary.
func ValidateHeadlinesQuery(q HeadlinesQuery) error {
	if q.Category != "" && !contains(Categories, q.Category) {
		return apperr.Validation("invalid category '%s'. Valid values: %s", q.Category, strings.Join(Categories, ", "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
