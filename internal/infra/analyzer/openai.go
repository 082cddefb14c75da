package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"newslens/internal/domain/entity"
	"newslens/internal/resilience/circuitbreaker"
	"newslens/internal/resilience/retry"
)

// OpenAI implements the Analyzer interface using OpenAI's chat API.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
	model          string
}

// NewOpenAI creates a new OpenAI analyzer with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	config := LoadConfig()

	slog.Info("Initialized OpenAI analyzer",
		slog.Int("summary_char_limit", config.SummaryCharLimit),
		slog.Int("max_topics", config.MaxTopics))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.LLMAPIConfig("openai")),
		retryConfig:    retry.LLMAPIConfig(),
		config:         config,
		model:          openai.GPT4oMini,
	}
}

// Name identifies the analysis provider.
func (o *OpenAI) Name() string { return "openai" }

// Analyze runs one article through the OpenAI API with circuit breaker and
// retry protection.
func (o *OpenAI) Analyze(ctx context.Context, article entity.Article) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result *Result
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doAnalyze(ctx, article)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(*Result)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("openai analyze failed after retries: %w", retryErr)
	}
	return result, nil
}

// doAnalyze performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doAnalyze(ctx context.Context, article entity.Article) (*Result, error) {
	prompt := buildPrompt(article, o.config)

	slog.InfoContext(ctx, "Starting analysis",
		slog.String("article_id", article.ID),
		slog.String("model", o.model))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Analysis failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned empty response")
	}

	result, err := parseResult(resp.Choices[0].Message.Content, o.config)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Analysis completed",
		slog.String("sentiment", result.Sentiment),
		slog.Int("topics", len(result.Topics)),
		slog.Duration("duration", duration))
	return result, nil
}
