package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// GitHubConfig holds configuration of the pull-request listing API client.
type GitHubConfig struct {
	// Token is the bearer credential presented on every request.
	Token string
	// BaseURL is the REST API root.
	BaseURL string
	// PageSize is the per_page parameter.
	PageSize int
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// RequestsPerSecond is the process-wide request budget.
	RequestsPerSecond float64
	// Burst is the token bucket size.
	Burst int
	// RetryMaxAttempts is the number of attempts per page.
	RetryMaxAttempts int
	// RetryInitialDelay is the first backoff delay.
	RetryInitialDelay time.Duration
	// RetryMaxDelay caps backoff and Retry-After delays.
	RetryMaxDelay time.Duration
}

// LoadGitHubConfigFromEnv loads GitHub configuration from environment variables.
func LoadGitHubConfigFromEnv() GitHubConfig {
	return GitHubConfig{
		Token:             strings.TrimSpace(GetEnv("GITHUB_TOKEN", "")),
		BaseURL:           GetEnv("GITHUB_API_URL", "https://api.github.com"),
		PageSize:          GetEnvInt("GITHUB_PAGE_SIZE", 100),
		Timeout:           GetEnvDuration("GITHUB_TIMEOUT", 30*time.Second),
		RequestsPerSecond: GetEnvFloat("GITHUB_REQUESTS_PER_SECOND", 1.0),
		Burst:             GetEnvInt("GITHUB_BURST", 5),
		RetryMaxAttempts:  GetEnvInt("GITHUB_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: GetEnvDuration("GITHUB_RETRY_INITIAL_DELAY", 2*time.Second),
		RetryMaxDelay:     GetEnvDuration("GITHUB_RETRY_MAX_DELAY", 60*time.Second),
	}
}

// Validate validates GitHub configuration. A missing token is fatal.
func (c GitHubConfig) Validate() error {
	if c.Token == "" {
		return ErrMissingGitHubToken
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid GITHUB_API_URL: %q", c.BaseURL)
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("GITHUB_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("GITHUB_TIMEOUT must be greater than 0")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("GITHUB_REQUESTS_PER_SECOND must be greater than 0")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("GITHUB_BURST must be greater than 0")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("GITHUB_RETRY_MAX_ATTEMPTS must be greater than 0")
	}
	return nil
}
