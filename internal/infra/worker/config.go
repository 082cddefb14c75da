// Package worker holds the background analysis worker: its YAML
// configuration, Prometheus metrics, health probes and the job runner that
// pulls top headlines and pushes them through the analysis pipeline.
package worker

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"newslens/internal/news/provider"
)

// Duration wraps time.Duration so YAML values like "10m" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// HeadlineJob describes one headlines pull executed on every scheduled run.
// All fields except Limit are optional: an empty provider resolves to the
// registry default and empty filters pull the provider's general feed.
type HeadlineJob struct {
	Provider string `yaml:"provider"`
	Country  string `yaml:"country"`
	Category string `yaml:"category"`
	Language string `yaml:"language"`
	Limit    int    `yaml:"limit"`
}

// Config is the worker configuration, loaded from a YAML file with defaults
// for everything the file omits.
type Config struct {
	// Schedule is a standard 5-field cron expression.
	Schedule string `yaml:"schedule"`

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string `yaml:"timezone"`

	// FetchTimeout bounds one full run (all jobs plus analysis).
	FetchTimeout Duration `yaml:"fetchTimeout"`

	// HealthPort serves the liveness and readiness probes.
	HealthPort int `yaml:"healthPort"`

	// Jobs lists the headline pulls per run. At least one is required.
	Jobs []HeadlineJob `yaml:"jobs"`
}

// DefaultConfig returns a configuration that analyzes the default provider's
// general headlines once an hour.
func DefaultConfig() Config {
	return Config{
		Schedule:     "0 * * * *",
		Timezone:     "UTC",
		FetchTimeout: Duration(10 * time.Minute),
		HealthPort:   9091,
		Jobs:         []HeadlineJob{{Limit: 20}},
	}
}

// LoadConfig reads the worker configuration from the YAML file at path.
// When path is empty the WORKER_CONFIG_PATH environment variable is consulted,
// and when that is empty too the defaults are returned unchanged. Unlike the
// API server config this is file-based because the job list is structured
// data that does not map onto flat environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("WORKER_CONFIG_PATH")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read worker config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse worker config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration. The schedule is validated with the same
// parser the scheduler uses, so a config that loads is a config that runs.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("schedule %q: %w", c.Schedule, err)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	if c.FetchTimeout.Std() < time.Minute || c.FetchTimeout.Std() > 4*time.Hour {
		return fmt.Errorf("fetchTimeout must be between 1m and 4h, got %s", c.FetchTimeout.Std())
	}

	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		return fmt.Errorf("healthPort must be between 1024 and 65535, got %d", c.HealthPort)
	}

	if len(c.Jobs) == 0 {
		return fmt.Errorf("at least one job is required")
	}
	for i, job := range c.Jobs {
		if job.Limit < 1 || job.Limit > 100 {
			return fmt.Errorf("jobs[%d]: limit must be between 1 and 100, got %d", i, job.Limit)
		}
		switch job.Provider {
		case "", provider.GNews, provider.NewsAPI, provider.NewsData:
		default:
			return fmt.Errorf("jobs[%d]: unknown provider %q", i, job.Provider)
		}
	}

	return nil
}
