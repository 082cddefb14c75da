package news_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/common/pagination"
	"newslens/internal/domain/apperr"
	newshandler "newslens/internal/handler/http/news"
	"newslens/internal/news"
)

// stubService scripts the aggregation surface for handler tests.
type stubService struct {
	searchReq    news.SearchRequest
	headlinesReq news.HeadlinesRequest
	envelope     *news.Envelope
	err          error
	providers    []string
	def          string
	setErr       error
	evicted      int
}

func (s *stubService) SearchNews(_ context.Context, req news.SearchRequest) (*news.Envelope, error) {
	s.searchReq = req
	return s.envelope, s.err
}

func (s *stubService) TopHeadlines(_ context.Context, req news.HeadlinesRequest) (*news.Envelope, error) {
	s.headlinesReq = req
	return s.envelope, s.err
}

func (s *stubService) Providers() []string              { return s.providers }
func (s *stubService) DefaultProvider() string          { return s.def }
func (s *stubService) SetDefaultProvider(n string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.def = n
	return nil
}
func (s *stubService) ClearCache() int { return s.evicted }
func (s *stubService) CacheSize() int  { return 0 }

var testCfg = pagination.Config{DefaultPage: 1, DefaultLimit: 10, MaxLimit: 100}

func okEnvelope() *news.Envelope {
	return &news.Envelope{
		Status:        "ok",
		Provider:      "gnews",
		Articles:      nil,
		TotalResults:  8,
		ActualResults: 5,
		Pagination:    pagination.Build(1, 5, 8, 5, true),
	}
}

func TestSearchHandlerForwardsParams(t *testing.T) {
	svc := &stubService{envelope: okEnvelope()}
	h := newshandler.SearchHandler{Svc: svc, PaginationCfg: testCfg}

	req := httptest.NewRequest(http.MethodGet,
		"/api/news/search?q=climate&provider=gnews&page=2&limit=5&lang=en&sortBy=date&from=2025-01-01", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "climate", svc.searchReq.Query)
	assert.Equal(t, "gnews", svc.searchReq.Provider)
	assert.Equal(t, 2, svc.searchReq.Page)
	assert.Equal(t, 5, svc.searchReq.Limit)
	assert.Equal(t, "en", svc.searchReq.Lang)
	assert.Equal(t, "date", svc.searchReq.SortBy)
	assert.Equal(t, "2025-01-01", svc.searchReq.From)

	var resp newshandler.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 8, resp.TotalResults)
	assert.True(t, resp.Pagination.HasNextPage)
}

func TestSearchHandlerDefaultsPagination(t *testing.T) {
	svc := &stubService{envelope: okEnvelope()}
	h := newshandler.SearchHandler{Svc: svc, PaginationCfg: testCfg}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news/search?q=golang", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.searchReq.Page)
	assert.Equal(t, 10, svc.searchReq.Limit)
}

func TestSearchHandlerRejectsBadPagination(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"non-numeric page", "/api/news/search?q=x&page=abc"},
		{"zero page", "/api/news/search?q=x&page=0"},
		{"limit above max", "/api/news/search?q=x&limit=1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{envelope: okEnvelope()}
			h := newshandler.SearchHandler{Svc: svc, PaginationCfg: testCfg}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body["type"])
			assert.Empty(t, svc.searchReq.Query, "service must not be reached")
		})
	}
}

func TestSearchHandlerTranslatesTaxonomyErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"empty query", apperr.Validation("Search query is required"), 400, "VALIDATION_ERROR"},
		{"unknown provider", apperr.ProviderNotFound("mystery", []string{"gnews"}), 404, "PROVIDER_NOT_FOUND"},
		{"no providers", apperr.NoProviders(), 503, "NO_PROVIDERS_AVAILABLE"},
		{"rate limited", apperr.RateLimit("gnews", nil), 429, "RATE_LIMIT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			h := newshandler.SearchHandler{Svc: svc, PaginationCfg: testCfg}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news/search?q=x", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestHeadlinesHandlerForwardsParams(t *testing.T) {
	svc := &stubService{envelope: okEnvelope()}
	h := newshandler.HeadlinesHandler{Svc: svc, PaginationCfg: testCfg}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/news/headlines?category=technology&country=us&page=3&limit=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "technology", svc.headlinesReq.Category)
	assert.Equal(t, "us", svc.headlinesReq.Country)
	assert.Equal(t, 3, svc.headlinesReq.Page)
	assert.Equal(t, 20, svc.headlinesReq.Limit)
}

func TestProvidersHandlerListsRegistered(t *testing.T) {
	svc := &stubService{providers: []string{"gnews", "newsapi"}, def: "gnews"}
	rec := httptest.NewRecorder()
	newshandler.ProvidersHandler{Svc: svc}.ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp newshandler.ProvidersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"gnews", "newsapi"}, resp.Providers)
	assert.Equal(t, "gnews", resp.Default)
}

func TestSetProviderHandler(t *testing.T) {
	t.Run("switches default", func(t *testing.T) {
		svc := &stubService{providers: []string{"gnews", "newsapi"}, def: "gnews"}
		rec := httptest.NewRecorder()
		newshandler.SetProviderHandler{Svc: svc}.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/api/providers/default",
				strings.NewReader(`{"provider":"newsapi"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "newsapi", svc.def)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		svc := &stubService{}
		rec := httptest.NewRecorder()
		newshandler.SetProviderHandler{Svc: svc}.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/api/providers/default",
				strings.NewReader(`not json`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty provider", func(t *testing.T) {
		svc := &stubService{}
		rec := httptest.NewRecorder()
		newshandler.SetProviderHandler{Svc: svc}.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/api/providers/default",
				strings.NewReader(`{"provider":"  "}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("propagates not found", func(t *testing.T) {
		svc := &stubService{setErr: apperr.ProviderNotFound("mystery", []string{"gnews"})}
		rec := httptest.NewRecorder()
		newshandler.SetProviderHandler{Svc: svc}.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPut, "/api/providers/default",
				strings.NewReader(`{"provider":"mystery"}`)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []any{"gnews"}, body["availableProviders"])
	})
}

func TestCacheClearHandler(t *testing.T) {
	svc := &stubService{evicted: 7}
	rec := httptest.NewRecorder()
	newshandler.CacheClearHandler{Svc: svc}.ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/news/cache/clear", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp newshandler.CacheClearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 7, resp.EvictedEntries)
}
