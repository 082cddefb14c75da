package worker

import (
	"context"
	"log/slog"
	"time"

	"newslens/internal/domain/entity"
	"newslens/internal/news"
)

// HeadlinesFetcher is the slice of the aggregation client the runner uses.
type HeadlinesFetcher interface {
	TopHeadlines(ctx context.Context, req news.HeadlinesRequest) (*news.Envelope, error)
}

// BatchAnalyzer pushes fetched articles through the analysis pipeline and
// reports how many results were stored.
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, articles []entity.Article) (int, error)
}

// Runner executes one scheduled analysis pass: pull headlines for every
// configured job, then analyze and store the combined batch. A failing job is
// logged and skipped so one misbehaving provider does not starve the others.
type Runner struct {
	Fetcher  HeadlinesFetcher
	Analyzer BatchAnalyzer
	Logger   *slog.Logger
	Metrics  *Metrics
	Config   *Config
}

// Run performs a single pass bounded by the configured fetch timeout.
func (r *Runner) Run(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.Config.FetchTimeout.Std())
	defer cancel()

	r.Logger.Info("analysis run started", slog.Int("jobs", len(r.Config.Jobs)))

	articles := r.fetchAll(ctx)
	r.Metrics.RecordFetched(len(articles))

	if len(articles) == 0 {
		r.Logger.Warn("analysis run fetched no articles")
		r.Metrics.RecordRun("failure")
		r.Metrics.RecordDuration(time.Since(start).Seconds())
		return
	}

	stored, err := r.Analyzer.AnalyzeBatch(ctx, articles)
	r.Metrics.RecordStored(stored)
	if err != nil {
		r.Logger.Error("analysis run aborted", slog.Any("error", err),
			slog.Int("stored", stored))
		r.Metrics.RecordRun("failure")
		r.Metrics.RecordDuration(time.Since(start).Seconds())
		return
	}

	r.Metrics.RecordRun("success")
	r.Metrics.RecordDuration(time.Since(start).Seconds())
	r.Metrics.RecordLastSuccess()
	r.Logger.Info("analysis run completed",
		slog.Int("fetched", len(articles)),
		slog.Int("stored", stored),
		slog.Duration("duration", time.Since(start)))
}

// fetchAll pulls headlines for every job, deduplicating across jobs by
// article ID so overlapping category pulls analyze each story once.
func (r *Runner) fetchAll(ctx context.Context) []entity.Article {
	seen := make(map[string]struct{})
	var articles []entity.Article

	for _, job := range r.Config.Jobs {
		if ctx.Err() != nil {
			r.Logger.Warn("headline fetch cancelled", slog.Any("error", ctx.Err()))
			break
		}

		env, err := r.Fetcher.TopHeadlines(ctx, news.HeadlinesRequest{
			Provider: job.Provider,
			Page:     1,
			Limit:    job.Limit,
			Category: job.Category,
			Country:  job.Country,
			Lang:     job.Language,
		})
		if err != nil {
			r.Logger.Error("headline fetch failed",
				slog.String("provider", job.Provider),
				slog.String("category", job.Category),
				slog.Any("error", err))
			continue
		}

		for _, a := range env.Articles {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			articles = append(articles, a)
		}
	}

	return articles
}
