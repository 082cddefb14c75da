package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"newslens/internal/config"
	"newslens/internal/infra/adapter/persistence/postgres"
	"newslens/internal/infra/analyzer"
	"newslens/internal/infra/db"
	workerPkg "newslens/internal/infra/worker"
	"newslens/internal/news"
	"newslens/internal/news/provider"
	"newslens/internal/observability/logging"
	analysisUC "newslens/internal/usecase/analysis"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.Database.Enabled() {
		logger.Error("DATABASE_URL must be set: the worker exists to fill the analysis store")
		os.Exit(1)
	}

	workerCfg, err := workerPkg.LoadConfig("")
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("schedule", workerCfg.Schedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.Duration("fetch_timeout", workerCfg.FetchTimeout.Std()),
		slog.Int("jobs", len(workerCfg.Jobs)))

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	registry := provider.NewRegistryFromCredentials(cfg.Providers.Credentials, logger)
	if cfg.Providers.Default != "" {
		if err := registry.SetDefault(cfg.Providers.Default); err != nil {
			logger.Error("default provider not configured",
				slog.String("provider", cfg.Providers.Default), slog.Any("error", err))
			os.Exit(1)
		}
	}
	client := news.NewClient(registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := workerPkg.NewMetrics()
	startMetricsServer(ctx, logger)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	runner := &workerPkg.Runner{
		Fetcher: client,
		Analyzer: &analysisUC.Service{
			Analyzer: buildAnalyzer(logger, cfg),
			Repo:     postgres.NewAnalyzedArticleRepo(database),
			Logger:   logger,
		},
		Logger:  logger,
		Metrics: metrics,
		Config:  workerCfg,
	}

	runScheduler(ctx, logger, runner, workerCfg, healthServer)
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for the schema. The
// API server owns migrations; the worker only probes until the table exists.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()

	const probe = "SELECT 1 FROM analyzed_articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return database
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
	return nil
}

// buildAnalyzer selects the LLM backend from configuration.
func buildAnalyzer(logger *slog.Logger, cfg *config.Config) analyzer.Analyzer {
	switch cfg.Analyzer.Backend {
	case config.AnalyzerClaude:
		logger.Info("using Claude for article analysis")
		return analyzer.NewClaude(cfg.Analyzer.AnthropicAPIKey)
	case config.AnalyzerOpenAI:
		logger.Info("using OpenAI for article analysis")
		return analyzer.NewOpenAI(cfg.Analyzer.OpenAIAPIKey)
	default:
		logger.Info("using no-op analyzer, summaries are article descriptions")
		return analyzer.NewNoOp()
	}
}

// runScheduler starts the cron scheduler and blocks until a shutdown signal.
func runScheduler(ctx context.Context, logger *slog.Logger, runner *workerPkg.Runner, cfg *workerPkg.Config, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		runner.Run(ctx)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.Schedule),
		slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("running job did not finish before shutdown deadline")
	}
	logger.Info("worker stopped")
}
