package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newslens/internal/handler/http/pathutil"
	"newslens/internal/handler/http/responsewriter"
	"newslens/internal/observability/metrics"
)

// MetricsMiddleware records request counts and latency per method, path, and
// status. Paths are normalized to templates so ID-carrying routes do not
// explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		normalizedPath := pathutil.NormalizePath(r.URL.Path)

		wrapped := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		status := strconv.Itoa(wrapped.StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, normalizedPath, status).Observe(duration)
	})
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
