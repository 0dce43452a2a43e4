// Package router provides cohort statistics routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/statistics/handler"
	"github.com/festy23/aidev_cohorts/internal/statistics/repository"
	"github.com/festy23/aidev_cohorts/internal/statistics/service"
)

// RegisterRoutes registers cohort statistics routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, dataset.New(db, logger), logger)
	h := handler.New(svc, logger)

	cohorts := r.Group("/cohorts")
	cohorts.GET("/:cohort/summary", h.GetCohortSummary)
	cohorts.GET("/:cohort/head", h.GetCohortHead)

	r.GET("/runs/latest", h.GetLatestRun)
}
