package news

import (
	"encoding/json"
	"strings"
	"sync"

	"newslens/internal/domain/entity"
)

// cacheEntry is the per-query-key cache value. An entry is populated by at
// most one upstream fetch for the lifetime of the process; afterwards every
// page request for the key re-slices the cached sequence.
type cacheEntry struct {
	articles      []entity.Article
	totalArticles int
	lastFetchSize int
	hasMore       bool
	populated     bool
}

// queryCache is the process-wide search cache. Unbounded in key count by
// design: entries are evicted only by the explicit clear operation, and the
// data is transient per process instance.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]*cacheEntry)}
}

func (c *queryCache) get(key string) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *queryCache) set(key string, e *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func (c *queryCache) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]*cacheEntry)
	return n
}

func (c *queryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKeyPayload is the canonical structural representation serialized into
// a cache key. Field order is fixed by the struct, which is what makes the
// serialization order-independent with respect to how callers supplied the
// options.
type cacheKeyPayload struct {
	Query    string `json:"query"`
	Provider string `json:"provider"`
	Country  string `json:"country"`
	Lang     string `json:"lang"`
	SortBy   string `json:"sortBy"`
	SearchIn string `json:"searchIn"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// cacheKey builds the canonical key scoping the at-most-one-fetch invariant:
// trimmed query text, the resolved (not requested) provider name, and every
// other search option.
func cacheKey(query, providerName string, req SearchRequest) string {
	payload := cacheKeyPayload{
		Query:    strings.TrimSpace(query),
		Provider: providerName,
		Country:  req.Country,
		Lang:     req.Lang,
		SortBy:   req.SortBy,
		SearchIn: req.SearchIn,
		From:     req.From,
		To:       req.To,
	}
	// Marshal of a flat string struct cannot fail.
	b, _ := json.Marshal(payload)
	return string(b)
}
