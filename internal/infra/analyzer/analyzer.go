// Package analyzer provides LLM-powered article analysis implementations.
// It includes adapters for Claude (Anthropic) and OpenAI APIs with circuit
// breaker and retry reliability patterns, plus a noop fallback for running
// without any LLM credential.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"newslens/internal/domain/entity"
)

// Result is the structured output of one article analysis.
type Result struct {
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
	Topics    []string `json:"topics"`
}

// Analyzer produces an analysis for a normalized article.
type Analyzer interface {
	// Name identifies the analysis provider for logging and metrics.
	Name() string
	// Analyze summarizes the article, classifies sentiment, and extracts topics.
	Analyze(ctx context.Context, article entity.Article) (*Result, error)
}

// Config holds shared configuration for the LLM analyzers.
type Config struct {
	// SummaryCharLimit is the maximum summary length requested from the model.
	// Loaded from ANALYZER_CHAR_LIMIT. Valid range: 100-5000. Default: 600.
	SummaryCharLimit int

	// MaxTopics caps the number of extracted topics.
	MaxTopics int

	// Timeout is the maximum duration for a single analysis API call.
	Timeout time.Duration
}

// LoadConfig loads analyzer configuration from environment variables.
// Invalid values fall back to defaults with a warning log.
func LoadConfig() Config {
	const (
		defaultCharLimit = 600
		minCharLimit     = 100
		maxCharLimit     = 5000
	)

	charLimit := defaultCharLimit
	if envLimit := os.Getenv("ANALYZER_CHAR_LIMIT"); envLimit != "" {
		parsed, err := strconv.Atoi(envLimit)
		switch {
		case err != nil:
			slog.Warn("Invalid ANALYZER_CHAR_LIMIT format, using default",
				slog.String("value", envLimit),
				slog.Int("default", defaultCharLimit))
		case parsed < minCharLimit || parsed > maxCharLimit:
			slog.Warn("ANALYZER_CHAR_LIMIT out of valid range, using default",
				slog.Int("value", parsed),
				slog.Int("min", minCharLimit),
				slog.Int("max", maxCharLimit),
				slog.Int("default", defaultCharLimit))
		default:
			charLimit = parsed
		}
	}

	return Config{
		SummaryCharLimit: charLimit,
		MaxTopics:        5,
		Timeout:          60 * time.Second,
	}
}

// analysisInput truncates article text to stay well under model token limits.
const maxInputChars = 10000

// buildPrompt constructs the analysis prompt sent to either LLM provider.
// Both adapters share one prompt so switching providers never changes the
// output contract.
func buildPrompt(article entity.Article, cfg Config) string {
	var b strings.Builder
	b.WriteString("Analyze the following news article. Respond with a JSON object only, no prose, with exactly these fields:\n")
	fmt.Fprintf(&b, "  \"summary\": a summary of at most %d characters,\n", cfg.SummaryCharLimit)
	b.WriteString("  \"sentiment\": one of \"positive\", \"negative\", \"neutral\", \"mixed\",\n")
	fmt.Fprintf(&b, "  \"topics\": up to %d short topic keywords.\n\n", cfg.MaxTopics)
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	if article.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", article.Description)
	}

	content := article.Content
	if len(content) > maxInputChars {
		content = content[:maxInputChars] + "... (truncated)"
	}
	if content != "" {
		fmt.Fprintf(&b, "Content: %s\n", content)
	}
	return b.String()
}

// parseResult decodes the model response into a Result. Models occasionally
// wrap JSON in markdown fences or preamble text, so the parser extracts the
// outermost JSON object before unmarshalling.
func parseResult(raw string, cfg Config) (*Result, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var result Result
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	result.Sentiment = normalizeSentiment(result.Sentiment)
	if len(result.Topics) > cfg.MaxTopics {
		result.Topics = result.Topics[:cfg.MaxTopics]
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("model response missing summary")
	}
	return &result, nil
}

// normalizeSentiment maps free-form model output onto the closed sentiment
// set the store's schema enforces.
func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	case "mixed":
		return "mixed"
	default:
		return "neutral"
	}
}
