// Package news provides HTTP handlers for the news aggregation endpoints:
// search, top headlines, provider discovery and selection, and cache control.
package news

import (
	"newslens/internal/common/pagination"
	"newslens/internal/domain/entity"
)

// SearchResponse is the JSON shape of search and headlines responses. It
// mirrors the aggregation envelope so clients see one format regardless of
// which upstream provider served the request.
type SearchResponse struct {
	Status        string              `json:"status"`
	Provider      string              `json:"provider"`
	Articles      []entity.Article    `json:"articles"`
	TotalResults  int                 `json:"totalResults"`
	ActualResults int                 `json:"actualResults"`
	Pagination    pagination.Metadata `json:"pagination"`
}

// ProvidersResponse lists registered providers and the current default.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default"`
}

// SetProviderRequest is the body for changing the default provider.
type SetProviderRequest struct {
	Provider string `json:"provider"`
}

// CacheClearResponse reports the result of a cache clear.
type CacheClearResponse struct {
	Success        bool `json:"success"`
	EvictedEntries int  `json:"evictedEntries"`
}
