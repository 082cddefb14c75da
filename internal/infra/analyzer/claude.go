package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"newslens/internal/domain/entity"
	"newslens/internal/resilience/circuitbreaker"
	"newslens/internal/resilience/retry"
)

// Claude implements the Analyzer interface using Anthropic's Claude API.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
	model          string
	maxTokens      int
}

// NewClaude creates a new Claude analyzer with the given API key. It
// configures the circuit breaker and retry logic automatically.
func NewClaude(apiKey string) *Claude {
	config := LoadConfig()

	slog.Info("Initialized Claude analyzer",
		slog.Int("summary_char_limit", config.SummaryCharLimit),
		slog.Int("max_topics", config.MaxTopics))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.LLMAPIConfig("claude")),
		retryConfig:    retry.LLMAPIConfig(),
		config:         config,
		model:          "claude-sonnet-4-5-20250929",
		maxTokens:      1024,
	}
}

// Name identifies the analysis provider.
func (c *Claude) Name() string { return "claude" }

// Analyze runs one article through the Claude API with circuit breaker and
// retry protection.
func (c *Claude) Analyze(ctx context.Context, article entity.Article) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result *Result
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doAnalyze(ctx, article)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(*Result)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("claude analyze failed after retries: %w", retryErr)
	}
	return result, nil
}

// doAnalyze performs the actual API call without retry or circuit breaker.
func (c *Claude) doAnalyze(ctx context.Context, article entity.Article) (*Result, error) {
	requestID := uuid.New().String()
	prompt := buildPrompt(article, c.config)

	slog.InfoContext(ctx, "Starting analysis",
		slog.String("request_id", requestID),
		slog.String("article_id", article.ID),
		slog.String("model", c.model))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Analysis failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return nil, fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return nil, fmt.Errorf("claude api returned unexpected response type")
	}

	result, err := parseResult(textBlock.Text, c.config)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Analysis completed",
		slog.String("request_id", requestID),
		slog.String("sentiment", result.Sentiment),
		slog.Int("topics", len(result.Topics)),
		slog.Duration("duration", duration))
	return result, nil
}
