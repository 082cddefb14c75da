package analyzer

import (
	"context"
	"unicode/utf8"

	"newslens/internal/domain/entity"
)

// NoOp is an analyzer that derives a result without calling any LLM. It is
// used in development and when no LLM credential is configured, so the
// pipeline stays exercisable end to end.
type NoOp struct {
	config Config
}

// NewNoOp creates a new NoOp analyzer.
func NewNoOp() *NoOp {
	return &NoOp{config: LoadConfig()}
}

// Name identifies the analysis provider.
func (n *NoOp) Name() string { return "noop" }

// Analyze returns the article's own description (or title) truncated to the
// summary limit, neutral sentiment, and no topics.
func (n *NoOp) Analyze(_ context.Context, article entity.Article) (*Result, error) {
	summary := article.Description
	if summary == "" {
		summary = article.Title
	}
	if utf8.RuneCountInString(summary) > n.config.SummaryCharLimit {
		runes := []rune(summary)
		summary = string(runes[:n.config.SummaryCharLimit]) + "..."
	}
	return &Result{
		Summary:   summary,
		Sentiment: "neutral",
		Topics:    []string{},
	}, nil
}
