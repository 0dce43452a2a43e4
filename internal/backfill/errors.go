package backfill

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMalformedPage indicates a response body that is not a list of pull requests.
var ErrMalformedPage = errors.New("malformed pull request page")

// APIError is a non-success response from the pull request listing endpoint.
type APIError struct {
	Repo    string
	Page    int
	Status  int
	Message string
	// RateLimited is set for 429 and for 403 with an exhausted quota.
	RateLimited bool
	// Wait is the server-requested delay before retrying, if any.
	Wait time.Duration
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("github %s page %d: status %d: %s", e.Repo, e.Page, e.Status, msg)
}

// RetryAfter returns the server-requested delay.
func (e *APIError) RetryAfter() time.Duration {
	return e.Wait
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.RateLimited || e.Status >= http.StatusInternalServerError
}

// IsRetryable classifies errors returned by Client.ListPulls.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// Transport failures (reset connections, timeouts) are worth another try;
	// malformed payloads are not.
	return !errors.Is(err, ErrMalformedPage)
}
