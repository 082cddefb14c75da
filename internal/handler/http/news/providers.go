package news

import (
	"encoding/json"
	"net/http"
	"strings"

	"newslens/internal/handler/http/respond"
)

// ProvidersHandler serves GET /api/providers: the registered provider names
// and the current default.
type ProvidersHandler struct {
	Svc Service
}

func (h ProvidersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, ProvidersResponse{
		Providers: h.Svc.Providers(),
		Default:   h.Svc.DefaultProvider(),
	})
}

// SetProviderHandler serves PUT /api/providers/default: changes the default
// provider for requests that do not name one explicitly.
type SetProviderHandler struct {
	Svc Service
}

func (h SetProviderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SetProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "request body must be JSON with a 'provider' field")
		return
	}

	name := strings.TrimSpace(req.Provider)
	if name == "" {
		respond.BadRequest(w, "provider name is required")
		return
	}

	if err := h.Svc.SetDefaultProvider(name); err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ProvidersResponse{
		Providers: h.Svc.Providers(),
		Default:   h.Svc.DefaultProvider(),
	})
}

// CacheClearHandler serves POST /api/news/cache/clear: evicts every cached
// query so the next requests re-fetch fresh results.
type CacheClearHandler struct {
	Svc Service
}

func (h CacheClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	evicted := h.Svc.ClearCache()
	respond.JSON(w, http.StatusOK, CacheClearResponse{
		Success:        true,
		EvictedEntries: evicted,
	})
}
