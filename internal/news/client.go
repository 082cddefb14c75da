// Package news implements the aggregation client: it resolves providers,
// reconciles their incompatible pagination models into one uniform page/limit
// contract, and owns the per-query result cache that makes repeated page
// requests stable and cheap.
//
// The reconciliation strategy is fetch-once-then-slice: the first request for
// a query key performs exactly one upstream fetch sized to the provider's
// capability, and every later page request for that key re-slices the cached
// sequence. Clients therefore see a stable, monotonic view across page
// requests at the cost of staleness until the cache is cleared explicitly.
package news

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"newslens/internal/common/pagination"
	"newslens/internal/domain/apperr"
	"newslens/internal/domain/entity"
	"newslens/internal/news/provider"
	"newslens/internal/observability/metrics"
	"newslens/internal/observability/tracing"
)

// SearchRequest carries one client-facing search call.
type SearchRequest struct {
	Query    string
	Provider string // empty resolves to the registry default
	Page     int
	Limit    int
	Country  string
	Lang     string
	SortBy   string
	SearchIn string
	From     string
	To       string
}

// HeadlinesRequest carries one client-facing top-headlines call.
type HeadlinesRequest struct {
	Provider string
	Page     int
	Limit    int
	Category string
	Country  string
	Lang     string
}

// Envelope is the uniform response shape for both the cached search path and
// the pass-through headlines path.
type Envelope struct {
	Status        string              `json:"status"`
	Provider      string              `json:"provider"`
	Articles      []entity.Article    `json:"articles"`
	TotalResults  int                 `json:"totalResults"`
	ActualResults int                 `json:"actualResults"`
	Pagination    pagination.Metadata `json:"pagination"`
}

// Client is the aggregation service. It owns the registry and the query cache
// as explicit fields so tests get isolation from fresh instances rather than
// ambient package state.
type Client struct {
	registry *provider.Registry
	cache    *queryCache
	group    singleflight.Group
	logger   *slog.Logger
}

// NewClient creates an aggregation client over the given registry.
func NewClient(registry *provider.Registry, logger *slog.Logger) *Client {
	return &Client{
		registry: registry,
		cache:    newQueryCache(),
		logger:   logger,
	}
}

// Providers returns the registered provider names for discovery.
func (c *Client) Providers() []string {
	return c.registry.Names()
}

// DefaultProvider returns the current default provider name.
func (c *Client) DefaultProvider() string {
	return c.registry.Default()
}

// SetDefaultProvider changes the default provider, failing with a
// provider-not-found error when the name is unregistered.
func (c *Client) SetDefaultProvider(name string) error {
	return c.registry.SetDefault(name)
}

// ClearCache evicts every query cache entry and returns how many were held.
// This is the only eviction path: entries have no TTL.
func (c *Client) ClearCache() int {
	n := c.cache.clear()
	c.logger.Info("query cache cleared", slog.Int("evicted_entries", n))
	return n
}

// CacheSize returns the number of distinct query keys currently cached.
func (c *Client) CacheSize() int {
	return c.cache.size()
}

// SearchNews serves one page of search results for the request, fetching from
// the upstream provider only when the query key has never been fetched before.
func (c *Client) SearchNews(ctx context.Context, req SearchRequest) (*Envelope, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperr.Validation("Search query is required")
	}
	if err := validatePageLimit(req.Page, req.Limit); err != nil {
		return nil, err
	}

	prov, err := c.registry.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	key := cacheKey(query, prov.Name(), req)
	entry, err := c.ensurePopulated(ctx, key, prov, query, req)
	if err != nil {
		return nil, err
	}

	return c.buildSearchEnvelope(prov, entry, req.Page, req.Limit), nil
}

// ensurePopulated returns the populated cache entry for key, performing the
// single upstream fetch when the key has not been fetched yet. Concurrent
// callers for the same key share one in-flight fetch via singleflight, which
// closes the check-then-populate race and preserves the at-most-one-fetch
// invariant under concurrency.
func (c *Client) ensurePopulated(ctx context.Context, key string, prov provider.Provider, query string, req SearchRequest) (*cacheEntry, error) {
	if entry, ok := c.cache.get(key); ok && entry.populated {
		metrics.QueryCacheHitsTotal.WithLabelValues(prov.Name()).Inc()
		return entry, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A waiter that lost the race may arrive after the winner already
		// populated the entry.
		if entry, ok := c.cache.get(key); ok && entry.populated {
			return entry, nil
		}
		return c.fetchAndPopulate(ctx, key, prov, query, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*cacheEntry), nil
}

// fetchAndPopulate performs the one upstream fetch for a query key and stores
// the result. Fetch sizing follows the provider capability:
//
//   - ceiling-capped provider: fetch the full ceiling regardless of the
//     requested page, because nothing beyond it will ever exist and
//     re-fetching cannot change the result;
//   - paginated-capable provider: fetch max(requested end index, limit*2) to
//     opportunistically cache at least one extra page.
func (c *Client) fetchAndPopulate(ctx context.Context, key string, prov provider.Provider, query string, req SearchRequest) (*cacheEntry, error) {
	rows := req.Page * req.Limit
	if min := req.Limit * 2; rows < min {
		rows = min
	}
	if ceiling := prov.Ceiling(); ceiling > 0 {
		rows = ceiling
	}

	ctx, span := tracing.GetTracer().Start(ctx, "provider.search")
	span.SetAttributes(
		attribute.String("provider", prov.Name()),
		attribute.Int("rows_requested", rows),
	)
	defer span.End()

	metrics.QueryCacheMissesTotal.WithLabelValues(prov.Name()).Inc()
	metrics.ProviderFetchesTotal.WithLabelValues(prov.Name(), "search").Inc()

	result, err := prov.SearchNews(ctx, provider.SearchQuery{
		Query:    query,
		Max:      rows,
		Country:  req.Country,
		Lang:     req.Lang,
		SortBy:   req.SortBy,
		SearchIn: req.SearchIn,
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		metrics.ProviderFetchFailuresTotal.WithLabelValues(prov.Name(), "search").Inc()
		return nil, err
	}

	entry := &cacheEntry{
		articles:      result.Articles,
		totalArticles: result.TotalResults,
		lastFetchSize: len(result.Articles),
		// A ceiling-capped provider can never produce more than the one
		// ceiling fetch. For others, a full window suggests more exists.
		hasMore:   prov.Ceiling() == 0 && len(result.Articles) >= rows,
		populated: true,
	}
	c.cache.set(key, entry)

	c.logger.Debug("query cache populated",
		slog.String("provider", prov.Name()),
		slog.Int("articles", len(result.Articles)),
		slog.Int("reported_total", result.TotalResults))
	return entry, nil
}

// buildSearchEnvelope slices the current page out of the cached sequence and
// computes the reconciled pagination metadata.
func (c *Client) buildSearchEnvelope(prov provider.Provider, entry *cacheEntry, page, limit int) *Envelope {
	pageItems := slicePage(entry.articles, page, limit)
	cached := len(entry.articles)

	var total int
	var hasNext bool
	switch {
	case prov.Ceiling() > 0:
		// The upstream-reported total is inflated relative to what is
		// actually retrievable; the cached count is the real total.
		total = cached
		hasNext = cached > page*limit
	case entry.totalArticles > 0:
		total = entry.totalArticles
		hasNext = page < pagination.CalculateTotalPages(total, limit)
	default:
		// No reported total: estimate optimistically from the cached count
		// until a real total becomes known. The doubling is a heuristic,
		// not a contract.
		total = cached
		if entry.hasMore {
			total = cached * 2
		}
		hasNext = page*limit < total
	}

	return &Envelope{
		Status:        "ok",
		Provider:      prov.Name(),
		Articles:      pageItems,
		TotalResults:  total,
		ActualResults: len(pageItems),
		Pagination:    pagination.Build(page, limit, total, len(pageItems), hasNext),
	}
}

// TopHeadlines serves one page of top headlines. Headlines bypass the query
// cache entirely: page and limit are forwarded as the provider's native
// offset/limit and the native response is decorated with the same pagination
// metadata shape the search path uses, so callers get one uniform envelope
// regardless of code path.
func (c *Client) TopHeadlines(ctx context.Context, req HeadlinesRequest) (*Envelope, error) {
	if err := validatePageLimit(req.Page, req.Limit); err != nil {
		return nil, err
	}

	prov, err := c.registry.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "provider.headlines")
	span.SetAttributes(attribute.String("provider", prov.Name()))
	defer span.End()

	metrics.ProviderFetchesTotal.WithLabelValues(prov.Name(), "headlines").Inc()

	result, err := prov.TopHeadlines(ctx, provider.HeadlinesQuery{
		Category: req.Category,
		Country:  req.Country,
		Lang:     req.Lang,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		metrics.ProviderFetchFailuresTotal.WithLabelValues(prov.Name(), "headlines").Inc()
		return nil, err
	}

	total := result.TotalResults
	var hasNext bool
	if total > 0 {
		hasNext = req.Page < pagination.CalculateTotalPages(total, req.Limit)
	} else {
		// Absent total: a full window optimistically implies a next page.
		total = len(result.Articles)
		hasNext = len(result.Articles) == req.Limit
	}

	return &Envelope{
		Status:        "ok",
		Provider:      prov.Name(),
		Articles:      result.Articles,
		TotalResults:  total,
		ActualResults: len(result.Articles),
		Pagination:    pagination.Build(req.Page, req.Limit, total, len(result.Articles), hasNext),
	}, nil
}

// validatePageLimit enforces the shared page/limit contract before any
// provider interaction, carrying the offending value in the error.
func validatePageLimit(page, limit int) error {
	if page < 1 {
		return apperr.Validation("page must be a positive integer, got '%d'", page)
	}
	if limit < 1 {
		return apperr.Validation("limit must be a positive integer, got '%d'", limit)
	}
	return nil
}

// slicePage extracts the half-open window [(page-1)*limit, (page-1)*limit+limit)
// from the cached sequence, clamped to its bounds.
func slicePage(articles []entity.Article, page, limit int) []entity.Article {
	start := pagination.CalculateOffset(page, limit)
	if start >= len(articles) {
		return []entity.Article{}
	}
	end := start + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end]
}
