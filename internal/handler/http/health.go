package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler handles health check endpoint requests. It reports provider
// availability and, when a database is configured, connectivity and pool
// statistics. Returns 503 when no news provider is usable.
type HealthHandler struct {
	DB        *sql.DB // optional; nil skips the database check
	Providers func() []string
	Version   string
}

// ServeHTTP performs health checks and returns the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	allHealthy := true

	providerCheck := h.checkProviders()
	checks["providers"] = providerCheck
	if providerCheck.Status == "unhealthy" {
		allHealthy = false
	}

	if h.DB != nil {
		dbCheck := h.checkDatabase(ctx)
		checks["database"] = dbCheck
		if dbCheck.Status == "unhealthy" {
			allHealthy = false
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// checkProviders reports which news providers are registered. Zero providers
// means every search request would fail, so the service is unhealthy.
func (h *HealthHandler) checkProviders() CheckStatus {
	if h.Providers == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	names := h.Providers()
	if len(names) == 0 {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "no news providers are configured",
		}
	}
	return CheckStatus{
		Status:  "healthy",
		Details: map[string]any{"registered": names, "count": len(names)},
	}
}

// checkDatabase checks connectivity and returns connection pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: err.Error()}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80.0 {
			return CheckStatus{
				Status:  "degraded",
				Message: "connection pool utilization above 80%",
				Details: details,
			}
		}
	}

	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler handles readiness probe requests. Ready means at least one
// news provider is registered; the database is optional at startup.
type ReadyHandler struct {
	Providers func() []string
}

// ServeHTTP returns 200 OK when the service can serve search traffic.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Providers == nil || len(h.Providers()) == 0 {
		http.Error(w, "no providers configured", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		log.Printf("ready: failed to write response: %v", err)
	}
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
