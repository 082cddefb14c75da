package provider

import (
	"context"
	"net/url"
	"strconv"

	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
	"newslens/internal/news/normalize"
)

const newsdataBaseURL = "https://newsdata.io/api/1"

// newsdataSizeCap is the maximum size parameter accepted by NewsData.
const newsdataSizeCap = 50

// NewsData has no sort parameter at all; every shared sort key falls back to
// the provider default ordering (relevance-equivalent). The empty mapping
// table keeps the vocabulary translation explicit per variant.
var newsdataSortMap = map[string]string{}

type newsdataProvider struct {
	apiKey string
	client *apiClient
}

// NewNewsData creates the NewsData adapter. NewsData reports approximate
// totals and paginates with opaque cursors rather than numeric offsets, so
// the adapter fetches the caller's row requirement in a single sized call.
func NewNewsData(apiKey string, opts ...Option) Provider {
	p := &newsdataProvider{
		apiKey: apiKey,
		client: newAPIClient(NewsData, newsdataBaseURL, 1),
	}
	for _, opt := range opts {
		opt(p.client)
	}
	return p
}

func (p *newsdataProvider) Name() string { return NewsData }

func (p *newsdataProvider) Ready() bool { return p.apiKey != "" }

func (p *newsdataProvider) Ceiling() int { return 0 }

// newsdataArticle is the native NewsData article shape.
type newsdataArticle struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
	PubDate     string `json:"pubDate"`
	SourceID    string `json:"source_id"`
	SourceURL   string `json:"source_url"`
}

type newsdataResponse struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Results      []newsdataArticle `json:"results"`
}

func (p *newsdataProvider) SearchNews(ctx context.Context, q SearchQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(NewsData, "missing API key")
	}
	if err := ValidateSearchQuery(q); err != nil {
		return nil, err
	}
	// Sort vocabulary has no NewsData equivalent; validated above, then the
	// provider default ordering applies.
	_ = mapOrDefault(newsdataSortMap, q.SortBy, "")

	size := q.Max
	if size <= 0 || size > newsdataSizeCap {
		size = newsdataSizeCap
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("apikey", p.apiKey)
	params.Set("size", strconv.Itoa(size))
	if q.Lang != "" {
		params.Set("language", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.From != "" {
		params.Set("from_date", q.From)
	}
	if q.To != "" {
		params.Set("to_date", q.To)
	}

	var resp newsdataResponse
	if err := p.client.getJSON(ctx, "/news", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

func (p *newsdataProvider) TopHeadlines(ctx context.Context, q HeadlinesQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(NewsData, "missing API key")
	}
	if err := ValidateHeadlinesQuery(q); err != nil {
		return nil, err
	}

	size := q.Limit
	if size <= 0 || size > newsdataSizeCap {
		size = newsdataSizeCap
	}

	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("size", strconv.Itoa(size))
	params.Set("category", defaultString(q.Category, "top"))
	if q.Lang != "" {
		params.Set("language", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	// NewsData paginates headlines with opaque nextPage cursors; a numeric
	// page cannot be forwarded, so requests beyond page 1 re-serve the first
	// window and the envelope metadata reflects that.

	var resp newsdataResponse
	if err := p.client.getJSON(ctx, "/latest", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

func (p *newsdataProvider) buildResult(resp newsdataResponse) *Result {
	articles := make([]entity.Article, 0, len(resp.Results))
	for _, a := range resp.Results {
		articles = append(articles, normalize.Article(normalize.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.Link,
			ImageURL:    a.ImageURL,
			PublishedAt: a.PubDate,
			Source:      &normalize.RawSource{Name: a.SourceID, URL: a.SourceURL},
		}, NewsData))
	}
	return &Result{
		Status:       "ok",
		TotalResults: resp.TotalResults,
		Articles:     articles,
	}
}
