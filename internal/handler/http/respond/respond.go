// Package respond provides utilities for sending HTTP responses in JSON format.
// Error responses follow the application error taxonomy so every failure mode
// serializes to the same {"success": false, "error": ..., "type": ...,
// "statusCode": ...} shape regardless of which handler produced it.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"newslens/internal/domain/apperr"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; nothing to do but log.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Success writes a 200 response wrapping the payload with "success": true.
func Success(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": v})
}

// TaxonomyError writes an error from the application taxonomy using its own
// status code and JSON serialization. Errors outside the taxonomy are treated
// as internal: the cause is logged and a generic message is returned so
// upstream details never leak to clients.
func TaxonomyError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	if taxErr, ok := apperr.From(err); ok {
		JSON(w, taxErr.StatusCode, taxErr)
		return
	}

	slog.Default().Error("internal server error", slog.Any("error", err))
	JSON(w, http.StatusInternalServerError, map[string]any{
		"success":    false,
		"error":      "internal server error",
		"type":       "INTERNAL_ERROR",
		"statusCode": http.StatusInternalServerError,
	})
}

// BadRequest writes a validation error for malformed request input.
func BadRequest(w http.ResponseWriter, format string, args ...any) {
	TaxonomyError(w, apperr.Validation(format, args...))
}

// MethodNotAllowed writes a 405 response listing the allowed methods.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	JSON(w, http.StatusMethodNotAllowed, map[string]any{
		"success":    false,
		"error":      "method not allowed",
		"type":       "METHOD_NOT_ALLOWED",
		"statusCode": http.StatusMethodNotAllowed,
	})
}
