// Package dataset persists the enriched cohort artifacts and the run ledger.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

const batchSize = 500

// Repository defines the interface for artifact persistence.
type Repository interface {
	// ReplaceCohorts swaps the content of both artifact tables in one
	// transaction. Rows are written in the given order.
	ReplaceCohorts(ctx context.Context, ai []model.AIPullRequest, human []model.HumanPullRequest) error

	// SaveRun appends a run to the ledger.
	SaveRun(ctx context.Context, run *Run) error

	// LatestRun returns the most recently started run.
	LatestRun(ctx context.Context) (*Run, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new dataset repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// ReplaceCohorts swaps the content of both artifact tables.
func (r *repository) ReplaceCohorts(ctx context.Context, ai []model.AIPullRequest, human []model.HumanPullRequest) error {
	r.logger.Debugw("ReplaceCohorts called", "ai_rows", len(ai), "human_rows", len(human))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		if err := all.Delete(&model.AIPullRequest{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", model.AIPullRequest{}.TableName(), err)
		}
		if err := all.Delete(&model.HumanPullRequest{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", model.HumanPullRequest{}.TableName(), err)
		}

		if len(ai) > 0 {
			if err := tx.CreateInBatches(ai, batchSize).Error; err != nil {
				return fmt.Errorf("write %s: %w", model.AIPullRequest{}.TableName(), err)
			}
		}
		if len(human) > 0 {
			if err := tx.CreateInBatches(human, batchSize).Error; err != nil {
				return fmt.Errorf("write %s: %w", model.HumanPullRequest{}.TableName(), err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("ReplaceCohorts database error", "error", err)
		return err
	}

	r.logger.Debugw("ReplaceCohorts completed")
	return nil
}

// SaveRun appends a run to the ledger.
func (r *repository) SaveRun(ctx context.Context, run *Run) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		r.logger.Errorw("SaveRun database error", "run_id", run.RunID, "error", err)
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (r *repository) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := r.db.WithContext(ctx).Order("started_at DESC").Order("run_id DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRuns
		}
		r.logger.Errorw("LatestRun database error", "error", err)
		return nil, err
	}
	return &run, nil
}
