// Package apperr defines the closed error taxonomy shared by the aggregation core
// and the HTTP boundary. Every failure mode the core can surface is one of the
// kinds below, carries an HTTP-style status code for boundary translation, and
// serializes to a stable JSON shape for uniform client handling.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind identifies a member of the error taxonomy.
type Kind string

// The closed set of failure kinds. Callers branch on these rather than on
// message text.
const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindProviderNotFound Kind = "PROVIDER_NOT_FOUND"
	KindNoProviders      Kind = "NO_PROVIDERS_AVAILABLE"
	KindProviderConfig   Kind = "PROVIDER_CONFIGURATION_ERROR"
	KindRateLimit        Kind = "RATE_LIMIT_ERROR"
	KindExternalAPI      Kind = "EXTERNAL_API_ERROR"
)

// Error is the tagged error value raised at the point of failure and propagated
// unchanged to the boundary. Optional fields are populated per kind: Provider
// for provider-scoped failures, Available for not-found errors, ResetAt for
// rate limiting, and Err for the preserved upstream cause.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Provider   string
	Available  []string
	ResetAt    *time.Time
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the preserved upstream cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON serializes the error to the stable boundary shape
// {"success": false, "error": ..., "type": ..., "statusCode": ...} plus the
// optional structured context fields when present.
func (e *Error) MarshalJSON() ([]byte, error) {
	payload := struct {
		Success    bool     `json:"success"`
		Message    string   `json:"error"`
		Type       Kind     `json:"type"`
		StatusCode int      `json:"statusCode"`
		Provider   string   `json:"provider,omitempty"`
		Available  []string `json:"availableProviders,omitempty"`
		ResetAt    *string  `json:"resetAt,omitempty"`
	}{
		Success:    false,
		Message:    e.Message,
		Type:       e.Kind,
		StatusCode: e.StatusCode,
		Provider:   e.Provider,
		Available:  e.Available,
	}
	if e.ResetAt != nil {
		s := e.ResetAt.UTC().Format(time.RFC3339)
		payload.ResetAt = &s
	}
	return json.Marshal(payload)
}

// Validation creates a 400 error for malformed query, page, limit, or enum options.
func Validation(format string, args ...any) *Error {
	return &Error{
		Kind:       KindValidation,
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf(format, args...),
	}
}

// ProviderNotFound creates a 404 error for a named provider that is not
// registered. It carries the current registry listing so clients can recover.
func ProviderNotFound(name string, available []string) *Error {
	return &Error{
		Kind:       KindProviderNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("provider '%s' not found. Available providers: %s", name, strings.Join(available, ", ")),
		Provider:   name,
		Available:  available,
	}
}

// NoProviders creates a 503 error for the case where no provider at all is
// configured. Semantically distinct from ProviderNotFound: there is nothing to
// pick an alternative from.
func NoProviders() *Error {
	return &Error{
		Kind:       KindNoProviders,
		StatusCode: http.StatusServiceUnavailable,
		Message:    "no news providers are configured. Set at least one provider API key",
	}
}

// ProviderConfig creates a 503 error for a provider that is registered but not
// usable (e.g. credential present but client construction failed).
func ProviderConfig(provider, reason string) *Error {
	return &Error{
		Kind:       KindProviderConfig,
		StatusCode: http.StatusServiceUnavailable,
		Message:    fmt.Sprintf("provider '%s' is not configured: %s", provider, reason),
		Provider:   provider,
	}
}

// RateLimit creates a 429 error for upstream quota exhaustion.
// resetAt is nil when the provider did not report a reset time.
func RateLimit(provider string, resetAt *time.Time) *Error {
	return &Error{
		Kind:       KindRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Message:    fmt.Sprintf("rate limit exceeded for provider '%s'", provider),
		Provider:   provider,
		ResetAt:    resetAt,
	}
}

// ExternalAPI creates a 502 error wrapping any other upstream transport or
// response failure. The original failure is preserved as the cause, never
// discarded.
func ExternalAPI(provider string, cause error) *Error {
	return &Error{
		Kind:       KindExternalAPI,
		StatusCode: http.StatusBadGateway,
		Message:    fmt.Sprintf("external API error from provider '%s'", provider),
		Provider:   provider,
		Err:        cause,
	}
}

// From extracts a taxonomy error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode returns the HTTP status for an error, defaulting to 500 for
// errors outside the taxonomy.
func StatusCode(err error) int {
	if e, ok := From(err); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
