// Package health provides health check endpoint handler.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/aidev_cohorts/internal/database/database"
	"github.com/festy23/aidev_cohorts/internal/dataset"
)

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	runs   dataset.Repository
	logger *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(db *gorm.DB, runs dataset.Repository, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		runs:   runs,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status string `json:"status"`
	// LastRunID is empty until the pipeline has completed once.
	LastRunID string `json:"last_run_id,omitempty"`
	// LastRunFinishedAt is when the artifacts were last replaced.
	LastRunFinishedAt *time.Time `json:"last_run_finished_at,omitempty"`
	// Database reports connection pool usage.
	Database *DatabaseStats `json:"database,omitempty"`
}

// DatabaseStats is the subset of sql.DBStats exposed by the health check.
type DatabaseStats struct {
	OpenConnections int `json:"open_connections"`
	InUse           int `json:"in_use"`
	Idle            int `json:"idle"`
	MaxOpen         int `json:"max_open_connections"`
}

// Check handles GET /health request. The database must answer; a missing run
// history is reported but does not make the service unhealthy.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy"})
		return
	}

	resp := Response{Status: "ok"}
	if stats, err := database.GetStats(h.db); err == nil {
		resp.Database = &DatabaseStats{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
			MaxOpen:         stats.MaxOpenConnections,
		}
	}
	run, err := h.runs.LatestRun(ctx)
	switch {
	case err == nil:
		finished := run.FinishedAt.UTC()
		resp.LastRunID = run.RunID
		resp.LastRunFinishedAt = &finished
	case errors.Is(err, dataset.ErrNoRuns):
		resp.Status = "no_runs"
	default:
		h.logger.Warnw("health check could not read run ledger", "error", err)
		resp.Status = "degraded"
	}

	c.JSON(http.StatusOK, resp)
}
