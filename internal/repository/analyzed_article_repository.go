// Package repository defines the persistence interfaces for the application.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"newslens/internal/domain/entity"
)

// AnalysisStats summarizes the stored analysis results for the stats endpoint.
type AnalysisStats struct {
	Total       int64            `json:"total"`
	BySentiment map[string]int64 `json:"bySentiment"`
	ByProvider  map[string]int64 `json:"byProvider"`
}

// AnalyzedArticleRepository persists LLM analysis results for fetched
// articles. ArticleID is the deterministic aggregation ID, so re-analyzing
// the same upstream article upserts rather than duplicates.
type AnalyzedArticleRepository interface {
	// Create stores an analysis result and sets the generated row ID on the
	// entity. An existing row for the same article ID is replaced.
	Create(ctx context.Context, article *entity.AnalyzedArticle) error
	// Get retrieves an analysis by row ID. Returns (nil, nil) if not found.
	Get(ctx context.Context, id int64) (*entity.AnalyzedArticle, error)
	// GetByArticleID retrieves an analysis by the aggregation article ID.
	// Returns (nil, nil) if not found.
	GetByArticleID(ctx context.Context, articleID string) (*entity.AnalyzedArticle, error)
	// ListPaginated retrieves analyses ordered by created_at DESC.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.AnalyzedArticle, error)
	// Count returns the total number of stored analyses.
	Count(ctx context.Context) (int64, error)
	// Delete removes an analysis by row ID.
	Delete(ctx context.Context, id int64) error
	// ExistsByArticleID reports whether an analysis is already stored for the
	// aggregation article ID, letting the worker skip duplicate LLM calls.
	ExistsByArticleID(ctx context.Context, articleID string) (bool, error)
	// Stats aggregates stored analyses by sentiment and provider.
	Stats(ctx context.Context) (*AnalysisStats, error)
}
