package provider

import (
	"context"
	"net/url"
	"strconv"

	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
	"newslens/internal/news/normalize"
)

const newsapiBaseURL = "https://newsapi.org/v2"

// newsapiPageSizeCap is the documented maximum pageSize for NewsAPI.
const newsapiPageSizeCap = 100

// newsapiSortMap translates the shared sort vocabulary to NewsAPI sort keys.
var newsapiSortMap = map[string]string{
	SortRelevance:   "relevancy",
	SortDate:        "publishedAt",
	SortPublishTime: "publishedAt",
}

type newsapiProvider struct {
	apiKey string
	client *apiClient
}

// NewNewsAPI creates the NewsAPI adapter. NewsAPI supports native page/pageSize
// pagination with totals that may be approximate, so fetch sizes follow the
// caller's actual row requirement rather than a ceiling.
func NewNewsAPI(apiKey string, opts ...Option) Provider {
	p := &newsapiProvider{
		apiKey: apiKey,
		client: newAPIClient(NewsAPI, newsapiBaseURL, 1),
	}
	for _, opt := range opts {
		opt(p.client)
	}
	return p
}

func (p *newsapiProvider) Name() string { return NewsAPI }

func (p *newsapiProvider) Ready() bool { return p.apiKey != "" }

func (p *newsapiProvider) Ceiling() int { return 0 }

// newsapiArticle is the native NewsAPI article shape.
type newsapiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type newsapiResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsapiArticle `json:"articles"`
}

func (p *newsapiProvider) SearchNews(ctx context.Context, q SearchQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(NewsAPI, "missing API key")
	}
	if err := ValidateSearchQuery(q); err != nil {
		return nil, err
	}

	pageSize := q.Max
	if pageSize <= 0 || pageSize > newsapiPageSizeCap {
		pageSize = newsapiPageSizeCap
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("apiKey", p.apiKey)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortBy", mapOrDefault(newsapiSortMap, q.SortBy, "relevancy"))
	if q.Lang != "" {
		params.Set("language", q.Lang)
	}
	if q.SearchIn != "" {
		params.Set("searchIn", q.SearchIn)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}

	var resp newsapiResponse
	if err := p.client.getJSON(ctx, "/everything", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

func (p *newsapiProvider) TopHeadlines(ctx context.Context, q HeadlinesQuery) (*Result, error) {
	if !p.Ready() {
		return nil, apperr.ProviderConfig(NewsAPI, "missing API key")
	}
	if err := ValidateHeadlinesQuery(q); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("apiKey", p.apiKey)
	params.Set("category", defaultString(q.Category, "general"))
	// NewsAPI requires a country for top headlines.
	params.Set("country", defaultString(q.Country, "us"))
	if q.Limit > 0 {
		params.Set("pageSize", strconv.Itoa(q.Limit))
	}
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var resp newsapiResponse
	if err := p.client.getJSON(ctx, "/top-headlines", params, &resp); err != nil {
		return nil, err
	}
	return p.buildResult(resp), nil
}

func (p *newsapiProvider) buildResult(resp newsapiResponse) *Result {
	articles := make([]entity.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, normalize.Article(normalize.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Source:      &normalize.RawSource{Name: a.Source.Name},
		}, NewsAPI))
	}
	return &Result{
		Status:       "ok",
		TotalResults: resp.TotalResults,
		Articles:     articles,
	}
}
