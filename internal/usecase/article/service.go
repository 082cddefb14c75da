package article

import (
	"context"
	"fmt"

	"newslens/internal/common/pagination"
	"newslens/internal/domain/entity"
	"newslens/internal/repository"
)

// Service provides analyzed-article store use cases.
type Service struct {
	Repo repository.AnalyzedArticleRepository
}

// PaginatedResult contains one page of stored analyses plus metadata.
type PaginatedResult struct {
	Data       []*entity.AnalyzedArticle `json:"data"`
	Pagination pagination.Metadata       `json:"pagination"`
}

// ListPaginated retrieves stored analyses ordered by creation time.
func (s *Service) ListPaginated(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count analyzed articles: %w", err)
	}

	articles, err := s.Repo.ListPaginated(ctx, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list analyzed articles: %w", err)
	}

	hasNext := params.Page < pagination.CalculateTotalPages(int(total), params.Limit)
	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.Build(params.Page, params.Limit, int(total), len(articles), hasNext),
	}, nil
}

// Get retrieves a single stored analysis by row ID.
// Returns ErrInvalidArticleID if the ID is not positive and ErrArticleNotFound
// if no row exists.
func (s *Service) Get(ctx context.Context, id int64) (*entity.AnalyzedArticle, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get analyzed article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Delete removes a stored analysis by row ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if err == entity.ErrNotFound {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete analyzed article: %w", err)
	}
	return nil
}

// Stats aggregates stored analyses by sentiment and provider.
func (s *Service) Stats(ctx context.Context) (*repository.AnalysisStats, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis stats: %w", err)
	}
	return stats, nil
}
