// Package analysis implements the article analysis pipeline: it runs fetched
// articles through an LLM analyzer and persists the results, skipping articles
// that were already analyzed so repeated worker runs never duplicate work or
// re-spend LLM quota.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newslens/internal/domain/entity"
	"newslens/internal/infra/analyzer"
	"newslens/internal/observability/metrics"
	"newslens/internal/repository"
)

// Service coordinates analysis and storage.
type Service struct {
	Analyzer analyzer.Analyzer
	Repo     repository.AnalyzedArticleRepository
	Logger   *slog.Logger
}

// AnalyzeAndStore analyzes one article and persists the result. Articles
// without a URL are rejected because the store requires one. An article that
// already has a stored analysis is returned as-is without calling the LLM.
func (s *Service) AnalyzeAndStore(ctx context.Context, article entity.Article) (*entity.AnalyzedArticle, error) {
	if article.URL == nil {
		return nil, fmt.Errorf("article %s has no URL", article.ID)
	}

	existing, err := s.Repo.GetByArticleID(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing analysis: %w", err)
	}
	if existing != nil {
		s.Logger.Debug("analysis already stored, skipping",
			slog.String("article_id", article.ID))
		return existing, nil
	}

	start := time.Now()
	result, err := s.Analyzer.Analyze(ctx, article)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArticlesAnalyzedTotal.WithLabelValues(s.Analyzer.Name(), "failure").Inc()
		return nil, fmt.Errorf("analyze article %s: %w", article.ID, err)
	}
	metrics.ArticlesAnalyzedTotal.WithLabelValues(s.Analyzer.Name(), "success").Inc()

	analyzed := &entity.AnalyzedArticle{
		ArticleID:   article.ID,
		Title:       article.Title,
		URL:         *article.URL,
		Provider:    article.Provider,
		Summary:     result.Summary,
		Sentiment:   result.Sentiment,
		Topics:      result.Topics,
		PublishedAt: article.PublishedAt,
	}
	if err := s.Repo.Create(ctx, analyzed); err != nil {
		return nil, fmt.Errorf("store analysis for %s: %w", article.ID, err)
	}

	s.Logger.Info("article analyzed",
		slog.String("article_id", article.ID),
		slog.String("analyzer", s.Analyzer.Name()),
		slog.String("sentiment", analyzed.Sentiment))
	return analyzed, nil
}

// AnalyzeBatch analyzes a batch of articles, continuing past individual
// failures. It returns the number of newly stored analyses; the error is
// non-nil only when the context is cancelled.
func (s *Service) AnalyzeBatch(ctx context.Context, articles []entity.Article) (int, error) {
	stored := 0
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		if article.URL == nil {
			continue
		}
		exists, err := s.Repo.ExistsByArticleID(ctx, article.ID)
		if err != nil {
			s.Logger.Error("existence check failed",
				slog.String("article_id", article.ID),
				slog.Any("error", err))
			continue
		}
		if exists {
			continue
		}

		if _, err := s.AnalyzeAndStore(ctx, article); err != nil {
			s.Logger.Error("analysis failed, continuing batch",
				slog.String("article_id", article.ID),
				slog.Any("error", err))
			continue
		}
		stored++
	}
	return stored, nil
}
