// Package backfill fetches human-authored pull requests from the GitHub REST
// API for repositories whose human cohort is missing from the source dataset.
package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/festy23/aidev_cohorts/internal/config"
)

// APIUser is the author sub-object of a pull request.
type APIUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Type  string `json:"type"`
}

// APIPullRequest is the subset of the GitHub pull request object the pipeline reads.
type APIPullRequest struct {
	ID             int64      `json:"id"`
	Number         int        `json:"number"`
	CreatedAt      string     `json:"created_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	MergedAt       *time.Time `json:"merged_at"`
	Comments       *int       `json:"comments"`
	ReviewComments *int       `json:"review_comments"`
	User           *APIUser   `json:"user"`
}

// Lister lists one page of a repository's pull requests.
type Lister interface {
	ListPulls(ctx context.Context, fullName string, page int) ([]APIPullRequest, error)
}

// Client calls the pull request listing endpoint.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client from explicit configuration. The limiter is
// shared by every caller of this client.
func NewClient(cfg config.GitHubConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		pageSize:   pageSize,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1)),
	}
}

// ListPulls fetches one page, ascending by creation time.
func (c *Client) ListPulls(ctx context.Context, fullName string, page int) ([]APIPullRequest, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository name %q", fullName)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("state", "all")
	q.Set("per_page", strconv.Itoa(c.pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls?%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(name), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github %s page %d: %w", fullName, page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github %s page %d: read body: %w", fullName, page, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp, body, fullName, page)
	}

	var pulls []APIPullRequest
	if err := json.Unmarshal(body, &pulls); err != nil {
		return nil, fmt.Errorf("%w: %s page %d: %v", ErrMalformedPage, fullName, page, err)
	}
	return pulls, nil
}

func newAPIError(resp *http.Response, body []byte, fullName string, page int) *APIError {
	apiErr := &APIError{Repo: fullName, Page: page, Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		apiErr.RateLimited = true
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		apiErr.RateLimited = true
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("Retry-After") != "":
		// secondary rate limit
		apiErr.RateLimited = true
	}

	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		apiErr.Wait = time.Duration(secs) * time.Second
	} else if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil && apiErr.RateLimited {
		if d := time.Until(time.Unix(reset, 0)); d > 0 {
			apiErr.Wait = d
		}
	}
	return apiErr
}
