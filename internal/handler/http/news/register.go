package news

import (
	"net/http"

	"newslens/internal/common/pagination"
)

// Register registers the news aggregation HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc Service, paginationCfg pagination.Config) {
	mux.Handle("GET    /api/news/search", SearchHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET    /api/news/headlines", HeadlinesHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("POST   /api/news/cache/clear", CacheClearHandler{Svc: svc})

	mux.Handle("GET    /api/providers", ProvidersHandler{Svc: svc})
	mux.Handle("PUT    /api/providers/default", SetProviderHandler{Svc: svc})
}
