package article

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"newslens/internal/common/pagination"
	"newslens/internal/domain/entity"
	"newslens/internal/handler/http/pathutil"
	"newslens/internal/handler/http/respond"
	"newslens/internal/repository"
	artUC "newslens/internal/usecase/article"
)

// StoreService is the analyzed-article store surface the handlers depend on.
type StoreService interface {
	ListPaginated(ctx context.Context, params pagination.Params) (*artUC.PaginatedResult, error)
	Get(ctx context.Context, id int64) (*entity.AnalyzedArticle, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repository.AnalysisStats, error)
}

// AnalyzeService runs an article through the analysis pipeline.
type AnalyzeService interface {
	AnalyzeAndStore(ctx context.Context, article entity.Article) (*entity.AnalyzedArticle, error)
}

// ListHandler serves GET /api/articles.
type ListHandler struct {
	Svc           StoreService
	PaginationCfg pagination.Config
}

// ListResponse is the paginated list shape.
type ListResponse struct {
	Data       []DTO               `json:"data"`
	Pagination pagination.Metadata `json:"pagination"`
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	result, err := h.Svc.ListPaginated(r.Context(), params)
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}

	out := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		out = append(out, toDTO(item))
	}
	respond.JSON(w, http.StatusOK, ListResponse{Data: out, Pagination: result.Pagination})
}

// GetHandler serves GET /api/articles/{id}.
type GetHandler struct {
	Svc StoreService
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/api/articles/")
	if err != nil {
		respond.BadRequest(w, "invalid article id")
		return
	}

	article, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(article))
}

// DeleteHandler serves DELETE /api/articles/{id}.
type DeleteHandler struct {
	Svc StoreService
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/api/articles/")
	if err != nil {
		respond.BadRequest(w, "invalid article id")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves GET /api/articles/stats.
type StatsHandler struct {
	Svc StoreService
}

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

// AnalyzeHandler serves POST /api/articles/analyze: runs one article from a
// previous search response through the LLM pipeline and stores the result.
type AnalyzeHandler struct {
	Svc AnalyzeService
}

func (h AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "request body must be JSON with an 'article' field")
		return
	}
	if req.Article.ID == "" || req.Article.Title == "" {
		respond.BadRequest(w, "article id and title are required")
		return
	}
	if req.Article.URL == nil {
		respond.BadRequest(w, "article url is required for analysis")
		return
	}

	analyzed, err := h.Svc.AnalyzeAndStore(r.Context(), req.Article)
	if err != nil {
		respond.TaxonomyError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(analyzed))
}

// writeStoreError maps use case sentinel errors onto HTTP responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, artUC.ErrArticleNotFound):
		respond.JSON(w, http.StatusNotFound, map[string]any{
			"success":    false,
			"error":      "article not found",
			"type":       "NOT_FOUND",
			"statusCode": http.StatusNotFound,
		})
	case errors.Is(err, artUC.ErrInvalidArticleID):
		respond.BadRequest(w, "invalid article id")
	default:
		respond.TaxonomyError(w, err)
	}
}
