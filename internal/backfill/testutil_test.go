package backfill

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/festy23/aidev_cohorts/internal/config"
)

// fakeGitHub serves pages per repository; a missing page is an empty list.
type fakeGitHub struct {
	mu       sync.Mutex
	pages    map[string][][]map[string]any
	requests map[string]int
	// respond overrides the handler for a repository when set.
	respond func(w http.ResponseWriter, r *http.Request, repo string, page int) bool
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		pages:    make(map[string][][]map[string]any),
		requests: make(map[string]int),
	}
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	repo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/repos/"), "/pulls")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	f.mu.Lock()
	f.requests[repo]++
	pages := f.pages[repo]
	respond := f.respond
	f.mu.Unlock()

	if respond != nil && respond(w, r, repo, page) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if page < 1 || page > len(pages) {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(pages[page-1])
}

func (f *fakeGitHub) requestsFor(repo string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[repo]
}

func record(id int64, created, login, userType string) map[string]any {
	return map[string]any{
		"id":              id,
		"number":          id,
		"created_at":      created,
		"closed_at":       nil,
		"merged_at":       nil,
		"comments":        1,
		"review_comments": 2,
		"user":            map[string]any{"id": id + 1000, "login": login, "type": userType},
	}
}

func testGitHubConfig(baseURL string) config.GitHubConfig {
	return config.GitHubConfig{
		Token:             "test-token",
		BaseURL:           baseURL,
		PageSize:          100,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		RetryMaxAttempts:  3,
		RetryInitialDelay: time.Millisecond,
		RetryMaxDelay:     10 * time.Millisecond,
	}
}

func newTestServer(t *testing.T, fake *fakeGitHub) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return srv, NewClient(testGitHubConfig(srv.URL), srv.Client())
}
