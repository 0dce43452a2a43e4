// Package repository provides data access layer for cohort statistics.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	cohortmodel "github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/statistics/model"
)

// Repository defines the interface for cohort statistics data access operations.
type Repository interface {
	// GetCohortSummary returns aggregate figures of a cohort table.
	GetCohortSummary(ctx context.Context, origin cohortmodel.Origin) (*model.CohortSummary, error)

	// GetCohortHead returns the first limit rows of a cohort table.
	GetCohortHead(ctx context.Context, origin cohortmodel.Origin, limit int) (*model.CohortHead, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetCohortSummary returns aggregate figures of a cohort table.
func (r *repository) GetCohortSummary(ctx context.Context, origin cohortmodel.Origin) (*model.CohortSummary, error) {
	r.logger.Debugw("GetCohortSummary called", "cohort", origin)

	table, err := dataset.TableFor(origin)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)

	var result struct {
		TotalRows    int64   `gorm:"column:total_rows"`
		MergedRows   int64   `gorm:"column:merged_rows"`
		Repositories int64   `gorm:"column:repositories"`
		AvgHours     float64 `gorm:"column:avg_hours"`
	}
	err = db.Table(table).
		Select(`
			COUNT(*) as total_rows,
			COALESCE(SUM(merged), 0) as merged_rows,
			COUNT(DISTINCT repo_full_name) as repositories,
			COALESCE(AVG(review_duration_hours), 0) as avg_hours
		`).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("GetCohortSummary database error", "cohort", origin, "error", err)
		return nil, err
	}

	summary := &model.CohortSummary{
		Cohort:             string(origin),
		Rows:               int(result.TotalRows),
		MergedRows:         int(result.MergedRows),
		Repositories:       int(result.Repositories),
		AverageReviewHours: result.AvgHours,
	}
	if summary.Rows > 0 {
		summary.MergeRate = float64(summary.MergedRows) / float64(summary.Rows)
	}

	if summary.FirstCreatedAt, err = r.createdAtBound(db, table, "created_at ASC"); err != nil {
		return nil, err
	}
	if summary.LastCreatedAt, err = r.createdAtBound(db, table, "created_at DESC"); err != nil {
		return nil, err
	}

	if origin == cohortmodel.OriginAI {
		if summary.ClosedLoop, err = r.closedLoopBreakdown(db, table); err != nil {
			return nil, err
		}
	}

	r.logger.Debugw("GetCohortSummary completed", "cohort", origin, "rows", summary.Rows)
	return summary, nil
}

// createdAtBound reads an edge row rather than MIN/MAX so that the driver
// keeps the column's timestamp type.
func (r *repository) createdAtBound(db *gorm.DB, table, order string) (*time.Time, error) {
	var row struct {
		CreatedAt time.Time `gorm:"column:created_at"`
	}
	err := db.Table(table).Select("created_at").Order(order).Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Errorw("created_at bound database error", "table", table, "error", err)
		return nil, err
	}
	t := row.CreatedAt.UTC()
	return &t, nil
}

func (r *repository) closedLoopBreakdown(db *gorm.DB, table string) (map[string]int, error) {
	var rows []struct {
		Status string `gorm:"column:closed_loop_status"`
		Count  int64  `gorm:"column:total"`
	}
	err := db.Table(table).
		Select("closed_loop_status, COUNT(*) as total").
		Group("closed_loop_status").
		Order("closed_loop_status").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("closed loop breakdown database error", "error", err)
		return nil, err
	}

	out := map[string]int{}
	for _, row := range rows {
		out[row.Status] = int(row.Count)
	}
	return out, nil
}

// GetCohortHead returns the first limit rows of a cohort table.
func (r *repository) GetCohortHead(ctx context.Context, origin cohortmodel.Origin, limit int) (*model.CohortHead, error) {
	r.logger.Debugw("GetCohortHead called", "cohort", origin, "limit", limit)

	table, err := dataset.TableFor(origin)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)

	columnTypes, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		r.logger.Errorw("GetCohortHead column probe error", "cohort", origin, "error", err)
		return nil, err
	}
	head := &model.CohortHead{Columns: make([]string, 0, len(columnTypes))}
	for _, ct := range columnTypes {
		head.Columns = append(head.Columns, ct.Name())
	}

	var rows []map[string]any
	err = db.Table(table).
		Order("repo_full_name ASC, created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("GetCohortHead database error", "cohort", origin, "error", err)
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	head.Rows = rows

	r.logger.Debugw("GetCohortHead completed", "cohort", origin, "rows", len(rows))
	return head, nil
}
