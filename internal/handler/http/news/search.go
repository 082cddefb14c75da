package news

import (
	"context"
	"net/http"

	"newslens/internal/common/pagination"
	"newslens/internal/handler/http/respond"
	"newslens/internal/news"
)

// Service is the aggregation surface the handlers depend on. The concrete
// implementation is *news.Client; handlers accept the interface so tests can
// substitute a stub.
type Service interface {
	SearchNews(ctx context.Context, req news.SearchRequest) (*news.Envelope, error)
	TopHeadlines(ctx context.Context, req news.HeadlinesRequest) (*news.Envelope, error)
	Providers() []string
	DefaultProvider() string
	SetDefaultProvider(name string) error
	ClearCache() int
	CacheSize() int
}

// SearchHandler serves GET /api/news/search.
type SearchHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
}

// ServeHTTP parses search parameters and delegates to the aggregation client.
// All validation failures surface through the error taxonomy, so the handler
// only translates, never decides status codes itself.
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	q := r.URL.Query()
	env, err := h.Svc.SearchNews(r.Context(), news.SearchRequest{
		Query:    q.Get("q"),
		Provider: q.Get("provider"),
		Page:     params.Page,
		Limit:    params.Limit,
		Country:  q.Get("country"),
		Lang:     q.Get("lang"),
		SortBy:   q.Get("sortBy"),
		SearchIn: q.Get("searchIn"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	})
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, SearchResponse{
		Status:        env.Status,
		Provider:      env.Provider,
		Articles:      env.Articles,
		TotalResults:  env.TotalResults,
		ActualResults: env.ActualResults,
		Pagination:    env.Pagination,
	})
}

// HeadlinesHandler serves GET /api/news/headlines.
type HeadlinesHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
}

func (h HeadlinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	q := r.URL.Query()
	env, err := h.Svc.TopHeadlines(r.Context(), news.HeadlinesRequest{
		Provider: q.Get("provider"),
		Page:     params.Page,
		Limit:    params.Limit,
		Category: q.Get("category"),
		Country:  q.Get("country"),
		Lang:     q.Get("lang"),
	})
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, SearchResponse{
		Status:        env.Status,
		Provider:      env.Provider,
		Articles:      env.Articles,
		TotalResults:  env.TotalResults,
		ActualResults: env.ActualResults,
		Pagination:    env.Pagination,
	})
}
