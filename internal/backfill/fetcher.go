package backfill

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/window"
	"github.com/festy23/aidev_cohorts/internal/config"
	"github.com/festy23/aidev_cohorts/pkg/retry"
)

// Options tune a Fetcher.
type Options struct {
	// Concurrency bounds repositories fetched in parallel.
	Concurrency int
	// FailFast aborts on the first repository failure instead of skipping it.
	FailFast bool
	// Retry is applied to every page request.
	Retry retry.Config
}

// OptionsFromConfig builds fetcher options from application configuration.
func OptionsFromConfig(gh config.GitHubConfig, p config.PipelineConfig) Options {
	r := retry.DefaultConfig()
	r.MaxAttempts = gh.RetryMaxAttempts
	r.InitialDelay = gh.RetryInitialDelay
	r.MaxDelay = gh.RetryMaxDelay
	return Options{
		Concurrency: p.BackfillConcurrency,
		FailFast:    p.BackfillFailFast,
		Retry:       r,
	}
}

// Failure records a repository that could not be fetched.
type Failure struct {
	Repo string
	Page int
	Err  error
}

// Result is the outcome of a backfill.
type Result struct {
	// PullRequests are the kept rows, grouped by repository in input order.
	PullRequests []model.PullRequest
	// Failures lists skipped repositories. Empty in fail-fast mode.
	Failures []Failure
	// Requests is the number of page requests issued, retries included.
	Requests int64
	// Fetched is the number of records received before filtering.
	Fetched int
}

// FailedRepositories returns the names of repositories in Failures.
func (r Result) FailedRepositories() []string {
	names := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		names = append(names, f.Repo)
	}
	return names
}

// Fetcher rebuilds the human cohort from the pull request listing API.
type Fetcher struct {
	lister Lister
	opts   Options
	logger *zap.SugaredLogger
}

// NewFetcher creates a new fetcher.
func NewFetcher(lister Lister, opts Options, logger *zap.SugaredLogger) *Fetcher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Fetcher{lister: lister, opts: opts, logger: logger}
}

type repoResult struct {
	prs     []model.PullRequest
	fetched int
	failure *Failure
}

// Fetch lists every page of each repository and keeps the human records
// created inside w.
func (f *Fetcher) Fetch(ctx context.Context, repos []model.Repository, w window.Window) (Result, error) {
	var requests atomic.Int64
	results := make([]repoResult, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)

	for i, repo := range repos {
		g.Go(func() error {
			started := time.Now()
			prs, fetched, page, err := f.fetchRepo(gctx, repo, w, &requests)
			if err != nil {
				if f.opts.FailFast || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("backfill %s: %w", repo.FullName, err)
				}
				f.logger.Warnw("Skipping repository after backfill failure",
					"repo", repo.FullName,
					"page", page,
					"error", err,
				)
				results[i] = repoResult{failure: &Failure{Repo: repo.FullName, Page: page, Err: err}}
				return nil
			}
			f.logger.Debugw("Repository backfilled",
				"repo", repo.FullName,
				"fetched", fetched,
				"kept", len(prs),
				"duration", time.Since(started),
			)
			results[i] = repoResult{prs: prs, fetched: fetched}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{Requests: requests.Load()}, err
	}

	res := Result{Requests: requests.Load()}
	for _, r := range results {
		if r.failure != nil {
			res.Failures = append(res.Failures, *r.failure)
			continue
		}
		res.PullRequests = append(res.PullRequests, r.prs...)
		res.Fetched += r.fetched
	}
	return res, nil
}

func (f *Fetcher) fetchRepo(ctx context.Context, repo model.Repository, w window.Window, requests *atomic.Int64) ([]model.PullRequest, int, int, error) {
	cfg := f.opts.Retry
	cfg.Retryable = IsRetryable
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		f.logger.Infow("Retrying page request",
			"repo", repo.FullName,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	lister := listerFunc(func(ctx context.Context, fullName string, page int) ([]APIPullRequest, error) {
		return retry.DoWithResult(ctx, cfg, func() ([]APIPullRequest, error) {
			requests.Add(1)
			return f.lister.ListPulls(ctx, fullName, page)
		})
	})

	var (
		kept    []model.PullRequest
		fetched int
	)
	it := NewPageIterator(lister, repo.FullName)
	for {
		pulls, ok, err := it.Next(ctx)
		if err != nil {
			return nil, fetched, it.Checkpoint(), err
		}
		if !ok {
			return kept, fetched, it.Checkpoint(), nil
		}
		fetched += len(pulls)
		for _, pr := range pulls {
			keep, err := Keep(pr, w)
			if err != nil {
				return nil, fetched, it.Checkpoint() - 1, err
			}
			if !keep {
				continue
			}
			row, err := Project(pr, repo)
			if err != nil {
				return nil, fetched, it.Checkpoint() - 1, err
			}
			kept = append(kept, row)
		}
	}
}

type listerFunc func(ctx context.Context, fullName string, page int) ([]APIPullRequest, error)

func (fn listerFunc) ListPulls(ctx context.Context, fullName string, page int) ([]APIPullRequest, error) {
	return fn(ctx, fullName, page)
}
