package news_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
	"newslens/internal/news"
	"newslens/internal/news/provider"
)

// stubProvider is a scriptable provider used to observe exactly how the
// client drives the capability contract.
type stubProvider struct {
	mu            sync.Mutex
	name          string
	ceiling       int
	articles      []entity.Article
	total         int
	err           error
	searchCalls   atomic.Int32
	headlineCalls atomic.Int32
	lastSearch    provider.SearchQuery
	lastHeadlines provider.HeadlinesQuery
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Ready() bool  { return true }
func (s *stubProvider) Ceiling() int { return s.ceiling }

func (s *stubProvider) SearchNews(_ context.Context, q provider.SearchQuery) (*provider.Result, error) {
	s.searchCalls.Add(1)
	s.mu.Lock()
	s.lastSearch = q
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	n := len(s.articles)
	if q.Max > 0 && q.Max < n {
		n = q.Max
	}
	return &provider.Result{Status: "ok", TotalResults: s.total, Articles: s.articles[:n]}, nil
}

func (s *stubProvider) TopHeadlines(_ context.Context, q provider.HeadlinesQuery) (*provider.Result, error) {
	s.headlineCalls.Add(1)
	s.mu.Lock()
	s.lastHeadlines = q
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &provider.Result{Status: "ok", TotalResults: s.total, Articles: s.articles}, nil
}

func makeArticles(providerName string, n int) []entity.Article {
	out := make([]entity.Article, 0, n)
	for i := 0; i < n; i++ {
		u := fmt.Sprintf("https://example.com/%s/%d", providerName, i)
		out = append(out, entity.Article{
			ID:       fmt.Sprintf("%s_%d", providerName, i),
			Title:    fmt.Sprintf("Article %d", i),
			URL:      &u,
			Source:   entity.UnknownSource,
			Provider: providerName,
		})
	}
	return out
}

func newTestClient(providers ...provider.Provider) *news.Client {
	reg := provider.NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	return news.NewClient(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchCeilingProviderFetchOnceThenSlice(t *testing.T) {
	t.Parallel()

	// The §8 scenario: query "climate", limit 5, ceiling-capped provider
	// returning 8 articles in one fetch.
	stub := &stubProvider{name: "gnews", ceiling: 10, articles: makeArticles("gnews", 8), total: 2500}
	client := newTestClient(stub)

	page1, err := client.SearchNews(context.Background(), news.SearchRequest{
		Query: "climate", Page: 1, Limit: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "ok", page1.Status)
	assert.Equal(t, "gnews", page1.Provider)
	assert.Len(t, page1.Articles, 5)
	assert.Equal(t, 8, page1.TotalResults, "cached count wins over the inflated upstream total")
	assert.True(t, page1.Pagination.HasNextPage)
	assert.False(t, page1.Pagination.HasPreviousPage)

	page2, err := client.SearchNews(context.Background(), news.SearchRequest{
		Query: "climate", Page: 2, Limit: 5,
	})
	require.NoError(t, err)

	assert.Len(t, page2.Articles, 3)
	assert.False(t, page2.Pagination.HasNextPage)
	assert.True(t, page2.Pagination.HasPreviousPage)
	assert.Equal(t, int32(1), stub.searchCalls.Load(), "no second upstream fetch occurs")

	// The ceiling fetch always requests the full ceiling, not page*limit.
	assert.Equal(t, 10, stub.lastSearch.Max)
}

func TestSearchCeilingProviderExhaustedPages(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "gnews", ceiling: 10, articles: makeArticles("gnews", 8), total: 8}
	client := newTestClient(stub)

	for page := 1; page <= 5; page++ {
		env, err := client.SearchNews(context.Background(), news.SearchRequest{
			Query: "climate", Page: page, Limit: 5,
		})
		require.NoError(t, err)
		if page >= 2 {
			assert.False(t, env.Pagination.HasNextPage, "page %d", page)
		}
		if page >= 3 {
			assert.Empty(t, env.Articles, "page %d is past the cached sequence", page)
			assert.Equal(t, 0, env.ActualResults)
		}
	}
	assert.Equal(t, int32(1), stub.searchCalls.Load(), "repeated page requests never re-fetch")
}

func TestSearchPaginatedProviderUsesReportedTotal(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 20), total: 95}
	client := newTestClient(stub)

	env, err := client.SearchNews(context.Background(), news.SearchRequest{
		Query: "economy", Page: 2, Limit: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 95, env.TotalResults)
	assert.Equal(t, 19, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasNextPage)
	require.NotNil(t, env.Pagination.NextPage)
	assert.Equal(t, 3, *env.Pagination.NextPage)

	// Fetch sized to max(page*limit, limit*2) = 10.
	assert.Equal(t, 10, stub.lastSearch.Max)
}

func TestSearchPaginatedProviderEstimatesWhenTotalUnknown(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 10), total: 0}
	client := newTestClient(stub)

	env, err := client.SearchNews(context.Background(), news.SearchRequest{
		Query: "economy", Page: 1, Limit: 5,
	})
	require.NoError(t, err)

	// The estimate itself is implementation-defined; only the documented
	// consistency properties are asserted.
	assert.Len(t, env.Articles, 5)
	assert.GreaterOrEqual(t, env.TotalResults, 10)
	assert.True(t, env.Pagination.HasNextPage)
	assert.False(t, env.Pagination.HasPreviousPage)
	if env.TotalResults > 0 {
		want := (env.TotalResults + 4) / 5
		assert.Equal(t, want, env.Pagination.TotalPages)
	}
}

func TestSearchEmptyQueryFailsBeforeProvider(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"", "   ", "\t\n"} {
		stub := &stubProvider{name: "gnews", ceiling: 10}
		client := newTestClient(stub)

		_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: q, Page: 1, Limit: 5})
		taxErr, ok := apperr.From(err)
		require.True(t, ok, "query %q", q)
		assert.Equal(t, apperr.KindValidation, taxErr.Kind)
		assert.Contains(t, taxErr.Message, "Search query")
		assert.Equal(t, int32(0), stub.searchCalls.Load(), "provider must never be called")
	}
}

func TestSearchInvalidPageAndLimit(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "gnews", ceiling: 10}
	client := newTestClient(stub)

	_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 0, Limit: 5})
	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, taxErr.Kind)
	assert.Contains(t, taxErr.Message, "'0'")

	_, err = client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: -1})
	taxErr, ok = apperr.From(err)
	require.True(t, ok)
	assert.Contains(t, taxErr.Message, "'-1'")
	assert.Equal(t, int32(0), stub.searchCalls.Load())
}

func TestSearchUnknownProvider(t *testing.T) {
	t.Parallel()

	client := newTestClient(
		&stubProvider{name: "gnews", ceiling: 10},
		&stubProvider{name: "newsapi"},
	)

	_, err := client.SearchNews(context.Background(), news.SearchRequest{
		Query: "x", Provider: "mystery", Page: 1, Limit: 5,
	})
	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindProviderNotFound, taxErr.Kind)
	assert.Equal(t, []string{"gnews", "newsapi"}, taxErr.Available)
}

func TestSearchNoProvidersConfigured(t *testing.T) {
	t.Parallel()

	client := newTestClient()
	_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: 5})

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNoProviders, taxErr.Kind)
}

func TestSetDefaultProviderUnregistered(t *testing.T) {
	t.Parallel()

	client := newTestClient(&stubProvider{name: "gnews", ceiling: 10})
	err := client.SetDefaultProvider("unregistered")

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindProviderNotFound, taxErr.Kind)
	assert.Equal(t, 404, taxErr.StatusCode)
	assert.Equal(t, []string{"gnews"}, taxErr.Available)
}

func TestSearchConcurrentIdenticalQueriesFetchOnce(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 20), total: 20}
	client := newTestClient(stub)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.SearchNews(context.Background(), news.SearchRequest{
				Query: "race", Page: 1, Limit: 5,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), stub.searchCalls.Load(),
		"concurrent identical queries share one in-flight fetch")
}

func TestSearchDistinctOptionsAreDistinctCacheKeys(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 20), total: 20}
	client := newTestClient(stub)

	_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: 5, Lang: "en"})
	require.NoError(t, err)
	_, err = client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: 5, Lang: "fr"})
	require.NoError(t, err)
	// Same text, same options, different surrounding whitespace: same key.
	_, err = client.SearchNews(context.Background(), news.SearchRequest{Query: "  x  ", Page: 1, Limit: 5, Lang: "en"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), stub.searchCalls.Load())
	assert.Equal(t, 2, client.CacheSize())
}

func TestClearCacheForcesRefetch(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "gnews", ceiling: 10, articles: makeArticles("gnews", 8), total: 8}
	client := newTestClient(stub)

	_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "climate", Page: 1, Limit: 5})
	require.NoError(t, err)

	evicted := client.ClearCache()
	assert.Equal(t, 1, evicted)

	_, err = client.SearchNews(context.Background(), news.SearchRequest{Query: "climate", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.searchCalls.Load())
}

func TestSearchProviderErrorPropagatesUnchanged(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "gnews", ceiling: 10, err: apperr.RateLimit("gnews", nil)}
	client := newTestClient(stub)

	_, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: 5})
	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRateLimit, taxErr.Kind)

	// A failed fetch must not poison the cache: the next call retries.
	stub.err = nil
	stub.articles = makeArticles("gnews", 3)
	env, err := client.SearchNews(context.Background(), news.SearchRequest{Query: "x", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, env.Articles, 3)
}

func TestTopHeadlinesBypassesCache(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 5), total: 40}
	client := newTestClient(stub)

	env, err := client.TopHeadlines(context.Background(), news.HeadlinesRequest{
		Category: "technology", Page: 2, Limit: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, 40, env.TotalResults)
	assert.Equal(t, 8, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasNextPage)
	assert.True(t, env.Pagination.HasPreviousPage)

	// Page/limit are forwarded natively, not served from the cache.
	assert.Equal(t, 2, stub.lastHeadlines.Page)
	assert.Equal(t, 5, stub.lastHeadlines.Limit)
	assert.Equal(t, "technology", stub.lastHeadlines.Category)

	_, err = client.TopHeadlines(context.Background(), news.HeadlinesRequest{
		Category: "technology", Page: 2, Limit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.headlineCalls.Load(), "every headlines call reaches the provider")
	assert.Equal(t, 0, client.CacheSize())
}

func TestTopHeadlinesOptimisticNextWhenTotalAbsent(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{name: "newsapi", articles: makeArticles("newsapi", 5), total: 0}
	client := newTestClient(stub)

	env, err := client.TopHeadlines(context.Background(), news.HeadlinesRequest{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.True(t, env.Pagination.HasNextPage, "full window implies a next page")

	stub2 := &stubProvider{name: "gnews", ceiling: 10, articles: makeArticles("gnews", 3), total: 0}
	client2 := newTestClient(stub2)
	env, err = client2.TopHeadlines(context.Background(), news.HeadlinesRequest{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.False(t, env.Pagination.HasNextPage, "short window means exhausted")
}
