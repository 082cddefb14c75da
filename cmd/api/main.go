package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newslens/internal/common/pagination"
	"newslens/internal/config"
	"newslens/internal/infra/adapter/persistence/postgres"
	"newslens/internal/infra/analyzer"
	"newslens/internal/infra/db"
	"newslens/internal/news"
	"newslens/internal/news/provider"
	"newslens/internal/observability/logging"

	analysisUC "newslens/internal/usecase/analysis"
	artUC "newslens/internal/usecase/article"

	hhttp "newslens/internal/handler/http"
	harticle "newslens/internal/handler/http/article"
	hnews "newslens/internal/handler/http/news"
	"newslens/internal/handler/http/requestid"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}

	registry := provider.NewRegistryFromCredentials(cfg.Providers.Credentials, logger)
	if cfg.Providers.Default != "" {
		if err := registry.SetDefault(cfg.Providers.Default); err != nil {
			logger.Error("default provider not configured",
				slog.String("provider", cfg.Providers.Default), slog.Any("error", err))
			os.Exit(1)
		}
	}
	client := news.NewClient(registry, logger)

	database := initDatabase(logger, cfg)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	handler := setupServer(logger, cfg, client, database)
	runServer(logger, cfg, handler)
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection and runs migrations when a DATABASE_URL
// is configured. The analysis store is optional: without it the server runs
// search-only and the article routes are not registered.
func initDatabase(logger *slog.Logger, cfg *config.Config) *sql.DB {
	if !cfg.Database.Enabled() {
		logger.Info("no database configured, analysis store disabled")
		return nil
	}
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// buildAnalyzer selects the LLM backend from configuration. Keys were already
// validated by config.Load, so construction cannot fail here.
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

// setupServer configures the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.Config, client *news.Client, database *sql.DB) http.Handler {
	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	hnews.Register(mux, client, paginationCfg)

	if database != nil {
		repo := postgres.NewAnalyzedArticleRepo(database)
		storeSvc := &artUC.Service{Repo: repo}
		analysisSvc := &analysisUC.Service{
			Analyzer: buildAnalyzer(logger, cfg),
			Repo:     repo,
			Logger:   logger,
		}
		harticle.Register(mux, storeSvc, analysisSvc, paginationCfg)
	}

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Providers: client.Providers, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Providers: client.Providers})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, cfg, mux)
}

// applyMiddleware wraps the mux with the standard chain, innermost first:
// metrics, body limit, rate limit, logging, recovery, request ID.
func applyMiddleware(logger *slog.Logger, cfg *config.Config, handler http.Handler) http.Handler {
	rateLimiter := hhttp.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes)(chain)
	chain = rateLimiter.Limit(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.Config, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
