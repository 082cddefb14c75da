// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Aggregation metrics track the news client's cache and provider behavior.
var (
	// QueryCacheHitsTotal counts search requests served entirely from the
	// per-query cache, by provider.
	QueryCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_query_cache_hits_total",
			Help: "Search requests served from the query cache",
		},
		[]string{"provider"},
	)

	// QueryCacheMissesTotal counts search requests that required an upstream fetch.
	QueryCacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_query_cache_misses_total",
			Help: "Search requests that triggered an upstream provider fetch",
		},
		[]string{"provider"},
	)

	// ProviderFetchesTotal counts upstream provider calls by provider and operation.
	ProviderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_fetches_total",
			Help: "Upstream provider API calls",
		},
		[]string{"provider", "operation"},
	)

	// ProviderFetchFailuresTotal counts failed upstream provider calls.
	ProviderFetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_fetch_failures_total",
			Help: "Failed upstream provider API calls",
		},
		[]string{"provider", "operation"},
	)
)

// Analysis metrics track the LLM analysis pipeline.
var (
	// ArticlesAnalyzedTotal counts completed article analyses by provider and outcome.
	ArticlesAnalyzedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_analyzed_total",
			Help: "Articles run through LLM analysis",
		},
		[]string{"provider", "status"},
	)

	// AnalysisDuration measures end-to-end analysis duration in seconds.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_analysis_duration_seconds",
			Help:    "LLM analysis duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)
