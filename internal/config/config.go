// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
)

// ErrMissingGitHubToken indicates that no GitHub credential was configured.
var ErrMissingGitHubToken = errors.New("GITHUB_TOKEN is not set")

// Config holds configuration of a pipeline run.
type Config struct {
	// GitHub holds backfill API configuration.
	GitHub GitHubConfig
	// Pipeline holds cohort pipeline switches.
	Pipeline PipelineConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
}

// LoadFromEnv loads pipeline configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		GitHub:   LoadGitHubConfigFromEnv(),
		Pipeline: LoadPipelineConfigFromEnv(),
		Logger:   LoadLoggerConfigFromEnv(),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.GitHub.Validate(); err != nil {
		return fmt.Errorf("github config validation failed: %w", err)
	}

	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	return nil
}
