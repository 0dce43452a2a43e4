// Package handler provides HTTP handlers for cohort statistics endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/statistics/model"
	"github.com/festy23/aidev_cohorts/internal/statistics/service"
)

// Handler handles HTTP requests for cohort statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetCohortSummary handles GET /cohorts/:cohort/summary request.
func (h *Handler) GetCohortSummary(c *gin.Context) {
	resp, err := h.service.GetCohortSummary(c.Request.Context(), c.Param("cohort"))
	if err != nil {
		h.handleError(c, err, "error getting cohort summary")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCohortHead handles GET /cohorts/:cohort/head?limit=N request.
func (h *Handler) GetCohortHead(c *gin.Context) {
	limit := model.DefaultHeadLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(c, "INVALID_LIMIT", "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	resp, err := h.service.GetCohortHead(c.Request.Context(), c.Param("cohort"), limit)
	if err != nil {
		h.handleError(c, err, "error getting cohort head")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetLatestRun handles GET /runs/latest request.
func (h *Handler) GetLatestRun(c *gin.Context) {
	resp, err := h.service.GetLatestRun(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "error getting latest run")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, dataset.ErrUnknownCohort):
		errorResponse(c, "UNKNOWN_COHORT", "cohort must be ai or human", http.StatusNotFound)
	case errors.Is(err, dataset.ErrNoRuns):
		errorResponse(c, "NOT_FOUND", "no pipeline runs recorded", http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidLimit):
		errorResponse(c, "INVALID_LIMIT", err.Error(), http.StatusBadRequest)
	default:
		h.logger.Errorw(msg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
