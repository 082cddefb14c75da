package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"newslens/internal/domain/apperr"
)

// defaultTimeout bounds every upstream call. The provider APIs are untrusted;
// without this a stalled upstream would pin a request goroutine indefinitely.
const defaultTimeout = 15 * time.Second

// maxErrorBodyBytes limits how much of an upstream error body is preserved as
// error context.
const maxErrorBodyBytes = 512

// apiClient is the HTTP client shared by all provider adapters. It applies a
// client-side rate limit to outbound calls, a per-request timeout, and
// translates transport failures into the error taxonomy so adapters never leak
// a raw transport error.
type apiClient struct {
	provider string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// newAPIClient creates a client for one provider. rps is the outbound
// request-per-second budget for that provider's API key.
func newAPIClient(provider, baseURL string, rps float64) *apiClient {
	return &apiClient{
		provider: provider,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: defaultTimeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// getJSON performs one GET against path with the given query parameters and
// decodes the JSON response into out. All failure modes come back as taxonomy
// errors naming the origin provider with the original failure preserved.
func (c *apiClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.ExternalAPI(c.provider, fmt.Errorf("rate limiter wait: %w", err))
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.ExternalAPI(c.provider, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.ExternalAPI(c.provider, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return apperr.RateLimit(c.provider, parseRateLimitReset(resp.Header))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return apperr.ExternalAPI(c.provider,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.ExternalAPI(c.provider, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// parseRateLimitReset extracts the quota reset time from response headers.
// Providers disagree on the header: Retry-After carries either seconds or an
// HTTP date, X-RateLimit-Reset carries a Unix timestamp. Nil when neither is
// usable.
func parseRateLimitReset(h http.Header) *time.Time {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			t := time.Now().Add(time.Duration(secs) * time.Second)
			return &t
		}
		if t, err := http.ParseTime(v); err == nil {
			return &t
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(unix, 0)
			return &t
		}
	}
	return nil
}
