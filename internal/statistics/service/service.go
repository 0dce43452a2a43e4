// Package service provides business logic layer for cohort statistics.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/statistics/model"
	"github.com/festy23/aidev_cohorts/internal/statistics/repository"
)

// Service defines the interface for cohort statistics operations.
type Service interface {
	// GetCohortSummary returns aggregate figures of the named cohort.
	GetCohortSummary(ctx context.Context, cohort string) (*model.CohortSummaryResponse, error)

	// GetCohortHead returns the first limit rows of the named cohort.
	GetCohortHead(ctx context.Context, cohort string, limit int) (*model.CohortHeadResponse, error)

	// GetLatestRun returns the most recent pipeline run.
	GetLatestRun(ctx context.Context) (*model.LatestRunResponse, error)
}

type service struct {
	repo   repository.Repository
	runs   dataset.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, runs dataset.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		runs:   runs,
		logger: logger,
	}
}

// GetCohortSummary returns aggregate figures of the named cohort.
func (s *service) GetCohortSummary(ctx context.Context, cohort string) (*model.CohortSummaryResponse, error) {
	origin, err := dataset.ParseCohort(cohort)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.GetCohortSummary(ctx, origin)
	if err != nil {
		s.logger.Errorw("GetCohortSummary failed", "cohort", origin, "error", err)
		return nil, err
	}

	s.logger.Infow("GetCohortSummary completed", "cohort", origin, "rows", summary.Rows)
	return &model.CohortSummaryResponse{Summary: *summary}, nil
}

// GetCohortHead returns the first limit rows of the named cohort.
func (s *service) GetCohortHead(ctx context.Context, cohort string, limit int) (*model.CohortHeadResponse, error) {
	origin, err := dataset.ParseCohort(cohort)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > model.MaxHeadLimit {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", model.ErrInvalidLimit, limit, model.MaxHeadLimit)
	}

	head, err := s.repo.GetCohortHead(ctx, origin, limit)
	if err != nil {
		s.logger.Errorw("GetCohortHead failed", "cohort", origin, "error", err)
		return nil, err
	}

	return &model.CohortHeadResponse{
		Cohort:  string(origin),
		Columns: head.Columns,
		Rows:    head.Rows,
		Total:   len(head.Rows),
	}, nil
}

// GetLatestRun returns the most recent pipeline run.
func (s *service) GetLatestRun(ctx context.Context) (*model.LatestRunResponse, error) {
	run, err := s.runs.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	return &model.LatestRunResponse{Run: *run, FailedRepositories: run.Failed()}, nil
}
