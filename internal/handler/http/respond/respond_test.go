package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/domain/apperr"
	"newslens/internal/handler/http/respond"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "world", decodeBody(t, rec)["hello"])
}

func TestTaxonomyErrorUsesErrorStatusAndShape(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperr.Validation("page must be a positive integer, got '0'"), 400, "VALIDATION_ERROR"},
		{"provider not found", apperr.ProviderNotFound("x", []string{"gnews"}), 404, "PROVIDER_NOT_FOUND"},
		{"no providers", apperr.NoProviders(), 503, "NO_PROVIDERS_AVAILABLE"},
		{"rate limit", apperr.RateLimit("gnews", nil), 429, "RATE_LIMIT_ERROR"},
		{"external", apperr.ExternalAPI("newsapi", errors.New("boom")), 502, "EXTERNAL_API_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.TaxonomyError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["statusCode"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTaxonomyErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.TaxonomyError(rec, errors.New("pq: connection refused on 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestMethodNotAllowedListsMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.MethodNotAllowed(rec, http.MethodGet, http.MethodPost)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, []string{"GET", "POST"}, rec.Header().Values("Allow"))
}
