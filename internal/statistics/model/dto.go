// Package model provides data transfer objects for cohort statistics.
package model

import (
	"time"

	"github.com/festy23/aidev_cohorts/internal/dataset"
)

// CohortSummary describes one artifact table.
type CohortSummary struct {
	Cohort             string     `json:"cohort"`
	Rows               int        `json:"rows"`
	MergedRows         int        `json:"merged_rows"`
	MergeRate          float64    `json:"merge_rate"`
	Repositories       int        `json:"repositories"`
	AverageReviewHours float64    `json:"average_review_duration_hours"`
	FirstCreatedAt     *time.Time `json:"first_created_at"`
	LastCreatedAt      *time.Time `json:"last_created_at"`
	// ClosedLoop counts AI rows per closed_loop_status; nil for the human cohort.
	ClosedLoop map[string]int `json:"closed_loop,omitempty"`
}

// CohortSummaryResponse represents response for a cohort summary.
type CohortSummaryResponse struct {
	Summary CohortSummary `json:"summary"`
}

// CohortHead is the first rows of an artifact table in storage order.
type CohortHead struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// CohortHeadResponse represents response for the first rows of a cohort.
type CohortHeadResponse struct {
	Cohort  string           `json:"cohort"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int              `json:"total"`
}

// LatestRunResponse represents response for the latest pipeline run.
type LatestRunResponse struct {
	Run                dataset.Run `json:"run"`
	FailedRepositories []string    `json:"failed_repository_list"`
}
