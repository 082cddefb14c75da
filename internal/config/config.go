// Package config loads the API server configuration from environment
// variables. Loading is fail-closed: an invalid combination (unknown analyzer
// backend, out-of-range port) aborts startup rather than running with a
// silently wrong setup. Worker-side configuration lives in internal/infra/worker.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"newslens/internal/news/provider"
)

// Config is the root configuration for the API server.
type Config struct {
	Server    ServerConfig
	Providers ProviderConfig
	Analyzer  AnalyzerConfig
	Database  DatabaseConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Port the API listens on. Env: PORT. Default: 8080.
	Port int

	// ReadTimeout bounds reading the full request. Default: 15s.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing the full response. Upstream news APIs can
	// be slow, so this is generous. Default: 30s.
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections. Default: 60s.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration

	// MaxBodyBytes caps request body size. Default: 1 MiB.
	MaxBodyBytes int64

	// RateLimitRequests is the per-client request budget within
	// RateLimitWindow. Defaults: 100 requests per minute.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// ProviderConfig holds the news provider credentials and the startup default.
type ProviderConfig struct {
	// Credentials carries one API key per upstream. A missing key disables
	// that provider without failing startup.
	Credentials provider.Credentials

	// Default is the provider used when a request names none.
	// Env: DEFAULT_PROVIDER. Empty means first registered wins.
	Default string
}

// AnalyzerConfig selects the LLM backend for article analysis.
type AnalyzerConfig struct {
	// Backend is one of "claude", "openai" or "noop".
	// Env: ANALYZER_BACKEND. Default: "noop".
	Backend string

	AnthropicAPIKey string
	OpenAIAPIKey    string
}

// DatabaseConfig holds the persistence settings. The store is optional: with
// no DATABASE_URL the analysis endpoints are disabled and search still works.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database connection is configured.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// Analyzer backend names accepted by ANALYZER_BACKEND.
const (
	AnalyzerClaude = "claude"
	AnalyzerOpenAI = "openai"
	AnalyzerNoOp   = "noop"
)

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvInt("PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
			RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Providers: ProviderConfig{
			Credentials: provider.Credentials{
				GNewsAPIKey:    os.Getenv("GNEWS_API_KEY"),
				NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
				NewsDataAPIKey: os.Getenv("NEWSDATA_API_KEY"),
			},
			Default: os.Getenv("DEFAULT_PROVIDER"),
		},
		Analyzer: AnalyzerConfig{
			Backend:         getEnvOrDefault("ANALYZER_BACKEND", AnalyzerNoOp),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	if c.Server.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}

	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	if c.Providers.Default != "" {
		switch c.Providers.Default {
		case provider.GNews, provider.NewsAPI, provider.NewsData:
		default:
			return fmt.Errorf("DEFAULT_PROVIDER must be one of %q, %q, %q, got %q",
				provider.GNews, provider.NewsAPI, provider.NewsData, c.Providers.Default)
		}
	}

	switch c.Analyzer.Backend {
	case AnalyzerClaude:
		if c.Analyzer.AnthropicAPIKey == "" {
			return fmt.Errorf("ANALYZER_BACKEND=claude requires ANTHROPIC_API_KEY")
		}
	case AnalyzerOpenAI:
		if c.Analyzer.OpenAIAPIKey == "" {
			return fmt.Errorf("ANALYZER_BACKEND=openai requires OPENAI_API_KEY")
		}
	case AnalyzerNoOp:
	default:
		return fmt.Errorf("ANALYZER_BACKEND must be one of %q, %q, %q, got %q",
			AnalyzerClaude, AnalyzerOpenAI, AnalyzerNoOp, c.Analyzer.Backend)
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable with a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses a duration environment variable with a default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
