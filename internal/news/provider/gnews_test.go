package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/domain/apperr"
	"newslens/internal/news/provider"
)

const gnewsSearchBody = `{
	"totalArticles": 3,
	"articles": [
		{
			"title": "  Climate   summit opens ",
			"description": "World leaders meet",
			"content": "Full text",
			"url": "https://example.com/summit",
			"image": "https://cdn.example.com/summit.jpg",
			"publishedAt": "2026-02-10T08:30:00Z",
			"source": {"name": "Example Wire", "url": "https://example.com"}
		},
		{
			"title": "Broken link article",
			"url": "not-a-url",
			"source": {"name": "Example Wire"}
		},
		{
			"title": "Second valid",
			"url": "https://example.com/second",
			"source": {"name": "Example Wire"}
		}
	]
}`

func TestGNewsSearchNews(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gnewsSearchBody))
	}))
	defer srv.Close()

	p := provider.NewGNews("test-key", provider.WithBaseURL(srv.URL))
	res, err := p.SearchNews(context.Background(), provider.SearchQuery{
		Query:  "climate",
		Max:    50, // above the ceiling, must be clamped
		Lang:   "en",
		SortBy: provider.SortDate,
	})
	require.NoError(t, err)

	assert.Equal(t, "climate", gotQuery["q"])
	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "10", gotQuery["max"], "fetch size clamps to the free-tier ceiling")
	assert.Equal(t, "publishedAt", gotQuery["sortby"], "shared sort key mapped to native vocabulary")
	assert.Equal(t, "en", gotQuery["lang"])

	assert.Equal(t, 3, res.TotalResults)
	// The article whose URL failed normalization is filtered out.
	require.Len(t, res.Articles, 2)
	assert.Equal(t, "Climate summit opens", res.Articles[0].Title)
	assert.Equal(t, "gnews", res.Articles[0].Provider)
	require.NotNil(t, res.Articles[0].URL)
	assert.Equal(t, "Example Wire", res.Articles[0].Source.Name)
}

func TestGNewsCeiling(t *testing.T) {
	t.Parallel()
	p := provider.NewGNews("k")
	assert.Equal(t, 10, p.Ceiling())
}

func TestGNewsRejectsUnconfigured(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("network call issued for unconfigured provider")
	}))
	defer srv.Close()

	p := provider.NewGNews("", provider.WithBaseURL(srv.URL))
	_, err := p.SearchNews(context.Background(), provider.SearchQuery{Query: "x"})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindProviderConfig, taxErr.Kind)
	assert.Equal(t, "gnews", taxErr.Provider)
}

func TestGNewsValidatesSortBeforeCall(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid option must not be forwarded upstream")
	}))
	defer srv.Close()

	p := provider.NewGNews("k", provider.WithBaseURL(srv.URL))
	_, err := p.SearchNews(context.Background(), provider.SearchQuery{Query: "x", SortBy: "newest"})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, taxErr.Kind)
	assert.Contains(t, taxErr.Message, "sortBy")
}

func TestGNewsRateLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := provider.NewGNews("k", provider.WithBaseURL(srv.URL))
	_, err := p.SearchNews(context.Background(), provider.SearchQuery{Query: "x"})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRateLimit, taxErr.Kind)
	assert.Equal(t, "gnews", taxErr.Provider)
	require.NotNil(t, taxErr.ResetAt)
}

func TestGNewsUpstreamFailureWrapped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":["server exploded"]}`))
	}))
	defer srv.Close()

	p := provider.NewGNews("k", provider.WithBaseURL(srv.URL))
	_, err := p.SearchNews(context.Background(), provider.SearchQuery{Query: "x"})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindExternalAPI, taxErr.Kind)
	assert.Equal(t, "gnews", taxErr.Provider)
	// The original failure is preserved as context, never discarded.
	assert.Contains(t, taxErr.Error(), "500")
	assert.Contains(t, taxErr.Error(), "server exploded")
}

func TestGNewsTopHeadlines(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.Equal(t, "5", r.URL.Query().Get("max"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalArticles": 1, "articles": [{"title": "Final tonight", "url": "https://example.com/final"}]}`))
	}))
	defer srv.Close()

	p := provider.NewGNews("k", provider.WithBaseURL(srv.URL))
	res, err := p.TopHeadlines(context.Background(), provider.HeadlinesQuery{Category: "sports", Limit: 5})
	require.NoError(t, err)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "Final tonight", res.Articles[0].Title)
}

func TestGNewsInvalidCategory(t *testing.T) {
	t.Parallel()

	p := provider.NewGNews("k")
	_, err := p.TopHeadlines(context.Background(), provider.HeadlinesQuery{Category: "astrology"})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, taxErr.Kind)
}
