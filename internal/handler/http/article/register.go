package article

import (
	"net/http"

	"newslens/internal/common/pagination"
)

// Register registers the analyzed-article HTTP handlers with the given mux.
func Register(mux *http.ServeMux, store StoreService, analyze AnalyzeService, paginationCfg pagination.Config) {
	mux.Handle("GET    /api/articles", ListHandler{Svc: store, PaginationCfg: paginationCfg})
	mux.Handle("GET    /api/articles/stats", StatsHandler{Svc: store})
	mux.Handle("GET    /api/articles/", GetHandler{Svc: store})
	mux.Handle("DELETE /api/articles/", DeleteHandler{Svc: store})
	mux.Handle("POST   /api/articles/analyze", AnalyzeHandler{Svc: analyze})
}
