// Package pipeline runs the cohort reconciliation end to end.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/aidev_cohorts/internal/backfill"
	"github.com/festy23/aidev_cohorts/internal/cohort/identity"
	"github.com/festy23/aidev_cohorts/internal/cohort/metrics"
	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/qualify"
	"github.com/festy23/aidev_cohorts/internal/cohort/source"
	"github.com/festy23/aidev_cohorts/internal/cohort/split"
	"github.com/festy23/aidev_cohorts/internal/cohort/window"
	"github.com/festy23/aidev_cohorts/internal/config"
	"github.com/festy23/aidev_cohorts/internal/dataset"
)

// Fetcher rebuilds a human cohort from an external source.
type Fetcher interface {
	Fetch(ctx context.Context, repos []model.Repository, w window.Window) (backfill.Result, error)
}

// Service wires the pipeline stages.
type Service struct {
	source  source.Repository
	fetcher Fetcher
	store   dataset.Repository
	cfg     config.PipelineConfig
	logger  *zap.SugaredLogger

	now   func() time.Time
	newID func() string
}

// New creates a pipeline service. fetcher may be nil, which disables backfill.
func New(src source.Repository, fetcher Fetcher, store dataset.Repository, cfg config.PipelineConfig, logger *zap.SugaredLogger) *Service {
	return &Service{
		source:  src,
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Run executes one pipeline run and records it in the run ledger.
func (s *Service) Run(ctx context.Context) (*dataset.Run, error) {
	run := &dataset.Run{RunID: s.newID(), StartedAt: s.now()}
	log := s.logger.With("run_id", run.RunID)

	tables, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	qualified := qualify.Repositories(tables.Repositories)
	run.QualifyingRepositories = qualified.Len()
	log.Infow("Repositories qualified",
		"qualifying", qualified.Len(),
		"total", len(tables.Repositories),
		"min_stars", model.MinStars,
	)

	adapter, err := split.ForVariant(s.cfg.SourceSchema, tables.Columns)
	if err != nil {
		return nil, fmt.Errorf("select source schema: %w", err)
	}
	run.SourceSchema = adapter.Name()

	cohorts := adapter.Partition(tables.PullRequests, qualified)
	log.Infow("Pull requests partitioned",
		"schema", adapter.Name(),
		"ai", len(cohorts.AI),
		"human", len(cohorts.Human),
		"dropped", cohorts.Dropped,
	)

	w, err := window.Derive(cohorts.AI)
	if err != nil {
		return nil, fmt.Errorf("derive window: %w", err)
	}
	run.WindowStart, run.WindowEnd = w.Start, w.End
	log.Infow("Temporal window derived", "window", w.String())

	var human []model.PullRequest
	if len(cohorts.Human) == 0 {
		human, err = s.backfill(ctx, log, qualified, w, run)
		if err != nil {
			return nil, err
		}
	} else {
		human = w.Clamp(cohorts.Human)
		if len(human) < len(cohorts.AI) {
			log.Warnw("Human cohort is smaller than the AI cohort; backfill only runs for an empty cohort",
				"ai", len(cohorts.AI),
				"human_split", len(cohorts.Human),
				"human_in_window", len(human),
			)
		}
	}
	human = dedupe(human)

	ai := cohorts.AI
	model.SortPullRequests(ai)
	model.SortPullRequests(human)

	users := identity.NewDirectory(tables.Users)
	aiRows := toAIRows(metrics.DeriveAI(users.JoinAI(ai)))
	humanRows := toHumanRows(metrics.DeriveHuman(users.JoinHuman(human)))

	if err := s.store.ReplaceCohorts(ctx, aiRows, humanRows); err != nil {
		return nil, fmt.Errorf("write cohorts: %w", err)
	}
	run.AIRows, run.HumanRows = len(aiRows), len(humanRows)
	run.FinishedAt = s.now()

	if err := s.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	log.Infow("Pipeline run completed",
		"ai_rows", run.AIRows,
		"human_rows", run.HumanRows,
		"backfilled", run.Backfilled,
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)
	return run, nil
}

func (s *Service) backfill(ctx context.Context, log *zap.SugaredLogger, q qualify.Qualified, w window.Window, run *dataset.Run) ([]model.PullRequest, error) {
	if !s.cfg.BackfillEnabled || s.fetcher == nil {
		log.Warnw("Human cohort is empty and backfill is disabled")
		return nil, nil
	}

	log.Infow("Human cohort is empty, backfilling from GitHub",
		"repositories", q.Len(),
		"window", w.String(),
	)
	log.Debugw("Backfill targets", "repositories", q.FullNames)
	res, err := s.fetcher.Fetch(ctx, q.Repositories, w)
	if err != nil {
		return nil, fmt.Errorf("backfill human cohort: %w", err)
	}

	run.Backfilled = true
	run.BackfillRequests = res.Requests
	run.SetFailedRepositories(res.FailedRepositories())

	if len(res.Failures) > 0 {
		log.Warnw("Backfill finished with failed repositories",
			"failed", len(res.Failures),
			"succeeded", q.Len()-len(res.Failures),
			"repositories", res.FailedRepositories(),
		)
	}
	log.Infow("Backfill completed",
		"fetched", res.Fetched,
		"kept", len(res.PullRequests),
		"requests", res.Requests,
	)
	return w.Clamp(res.PullRequests), nil
}

// dedupe drops repeated ids, keeping the first occurrence. Pages can shift
// while a repository is being listed.
func dedupe(prs []model.PullRequest) []model.PullRequest {
	seen := make(map[int64]struct{}, len(prs))
	out := prs[:0:0]
	for _, pr := range prs {
		if _, ok := seen[pr.ID]; ok {
			continue
		}
		seen[pr.ID] = struct{}{}
		out = append(out, pr)
	}
	return out
}

func toAIRows(rows []model.Enriched) []model.AIPullRequest {
	out := make([]model.AIPullRequest, len(rows))
	for i, e := range rows {
		out[i] = e.AIRow()
	}
	return out
}

func toHumanRows(rows []model.Enriched) []model.HumanPullRequest {
	out := make([]model.HumanPullRequest, len(rows))
	for i, e := range rows {
		out[i] = e.HumanRow()
	}
	return out
}
