package provider

import (
	"context"
	"net/url"
	"strconv"

	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
	"newslens/internal/news/normalize"
)

// gnewsCeiling is the hard cap the GNews free tier puts on total results for
// any query. There is no offset pagination behind it: fetching the ceiling
// once retrieves everything that will ever exist for the query.
const gnewsCeiling = 10

const gnewsBaseURL = "https://gnews.io/api/v4"

// gnewsSortMap translates the shared sort vocabulary to GNews sort keys.
// GNews only distinguishes relevance from publication date, so both
// date-flavored keys collapse onto publishedAt.
var gnewsSortMap = map[string]string{
	SortRelevance:   "relevance",
	SortDate:        "publishedAt",
	SortPublishTime: "publishedAt",
}

type gnewsProvider struct {
	apiKey string
	client *apiClient
}

// NewGNews creates the GNews adapter. The provider is registered even with an
// empty key so Ready() can report the misconfiguration, but any call without a
// key fails with a configuration error before touching the network.
func NewGNews(apiKey string, opts ...Option) Provider {
	p := &gnewsProvider{
		apiKey: apiKey,
		client: newAPIClient(GNews, gnewsBaseURL, 1),
	}
	for _, opt := range opts {
		opt(p.client)
	}
	return p
}

func (p *gnewsProvider) Name() string { return GNews }

func (p *gnewsProvider) Ready() bool { return p.apiKey != "" }

func (p *gnewsProvider) Ceiling() int { return gnewsCeiling }

// gnewsArticle is the native GNews article shape.
type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

func (p *gnewsProvider) SearchNews(ctx context.Context, q SearchQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(GNews, "missing API key")
	}
	if err := ValidateSearchQuery(q); err != nil {
		return nil, err
	}

	max := q.Max
	if max <= 0 || max > gnewsCeiling {
		max = gnewsCeiling
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("apikey", p.apiKey)
	params.Set("max", strconv.Itoa(max))
	params.Set("sortby", mapOrDefault(gnewsSortMap, q.SortBy, "relevance"))
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.SearchIn != "" {
		params.Set("in", q.SearchIn)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}

	var resp gnewsResponse
	if err := p.client.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

func (p *gnewsProvider) TopHeadlines(ctx context.Context, q HeadlinesQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(GNews, "missing API key")
	}
	if err := ValidateHeadlinesQuery(q); err != nil {
		return nil, err
	}

	max := q.Limit
	if max <= 0 || max > gnewsCeiling {
		max = gnewsCeiling
	}

	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("max", strconv.Itoa(max))
	params.Set("category", defaultString(q.Category, "general"))
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var resp gnewsResponse
	if err := p.client.getJSON(ctx, "/top-headlines", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

// buildResult normalizes the native articles and applies the GNews validity
// filter: articles whose URL did not survive normalization are dropped, since
// an article without a working link is useless to every consumer downstream.
func (p *gnewsProvider) buildResult(resp gnewsResponse) *Result {
	articles := make([]entity.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		art := normalize.Article(normalize.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			ImageURL:    a.Image,
			PublishedAt: a.PublishedAt,
			Source:      &normalize.RawSource{Name: a.Source.Name, URL: a.Source.URL},
		}, GNews)
		if art.URL == nil {
			continue
		}
		articles = append(articles, art)
	}
	return &Result{
		Status:       "ok",
		TotalResults: resp.TotalArticles,
		Articles:     articles,
	}
}

// Option customizes a provider's HTTP client. Used by tests to point adapters
// at a local server.
type Option func(*apiClient)

// WithBaseURL overrides the provider API base URL.
func WithBaseURL(u string) Option {
	return func(c *apiClient) { c.baseURL = u }
}

// mapOrDefault translates a shared vocabulary value through a provider mapping
// table, falling back to the provider default for unmapped values.
func mapOrDefault(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
