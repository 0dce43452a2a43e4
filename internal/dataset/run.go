package dataset

import (
	"strings"
	"time"
)

// Run is one row of the pipeline run ledger.
type Run struct {
	RunID                  string    `gorm:"column:run_id;primaryKey"               json:"run_id"`
	StartedAt              time.Time `gorm:"column:started_at"                      json:"started_at"`
	FinishedAt             time.Time `gorm:"column:finished_at"                     json:"finished_at"`
	SourceSchema           string    `gorm:"column:source_schema"                   json:"source_schema"`
	QualifyingRepositories int       `gorm:"column:qualifying_repositories"         json:"qualifying_repositories"`
	AIRows                 int       `gorm:"column:ai_rows"                         json:"ai_rows"`
	HumanRows              int       `gorm:"column:human_rows"                      json:"human_rows"`
	WindowStart            time.Time `gorm:"column:window_start"                    json:"window_start"`
	WindowEnd              time.Time `gorm:"column:window_end"                      json:"window_end"`
	Backfilled             bool      `gorm:"column:backfilled"                      json:"backfilled"`
	BackfillRequests       int64     `gorm:"column:backfill_requests"               json:"backfill_requests"`
	FailedRepositories     string    `gorm:"column:failed_repositories"             json:"failed_repositories"`
}

// TableName specifies the table name for GORM.
func (Run) TableName() string {
	return "pipeline_runs"
}

// SetFailedRepositories stores repository names as a comma separated list.
func (r *Run) SetFailedRepositories(names []string) {
	r.FailedRepositories = strings.Join(names, ",")
}

// Failed returns the repositories that could not be backfilled.
func (r Run) Failed() []string {
	if r.FailedRepositories == "" {
		return []string{}
	}
	return strings.Split(r.FailedRepositories, ",")
}
