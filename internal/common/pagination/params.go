package pagination

import (
	"net/http"
	"strconv"

	"newslens/internal/domain/apperr"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParseQueryParams parses pagination parameters from an HTTP request query
// string, applying config defaults for missing values. Invalid values are a
// validation error carrying the offending literal so clients see exactly what
// was rejected.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, apperr.Validation("page must be a positive integer, got '%s'", pageStr)
		}
		params.Page = page
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, apperr.Validation("limit must be between 1 and %d, got '%s'", config.MaxLimit, limitStr)
		}
		params.Limit = limit
	}

	return params, nil
}

// Validate checks already-materialized params, for callers that do not come
// through an HTTP request.
func (p Params) Validate() error {
	if p.Page < 1 {
		return apperr.Validation("page must be a positive integer, got '%d'", p.Page)
	}
	if p.Limit < 1 {
		return apperr.Validation("limit must be a positive integer, got '%d'", p.Limit)
	}
	return nil
}
