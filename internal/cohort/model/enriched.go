package model

import (
	"sort"
	"time"
)

// ClosedLoop says whether the authoring and reviewing automation share a
// provider. Unknown means no reviewing-provider signal was available.
type ClosedLoop int

const (
	ClosedLoopUnknown ClosedLoop = iota
	ClosedLoopFalse
	ClosedLoopTrue
)

// String returns the closed_loop_status column value.
func (c ClosedLoop) String() string {
	switch c {
	case ClosedLoopTrue:
		return "true"
	case ClosedLoopFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Column returns the closed_loop column value: nil when unknown, else 0 or 1.
func (c ClosedLoop) Column() *int {
	var v int
	switch c {
	case ClosedLoopTrue:
		v = 1
	case ClosedLoopFalse:
		v = 0
	default:
		return nil
	}
	return &v
}

// Identity is the author metadata attached by the identity join. The zero
// value means the author was not found in the users table.
type Identity struct {
	AuthorType     string
	AuthorLogin    string
	AuthorProvider *string
}

// Metrics are the derived comparison fields.
type Metrics struct {
	ReviewDurationHours float64
	Merged              int
	ClosedLoop          ClosedLoop
}

// Enriched is a cohort row after identity join and metric derivation.
type Enriched struct {
	PullRequest
	Identity
	Metrics
}

// CohortRow holds the columns shared by both artifact tables.
type CohortRow struct {
	ID                    int64      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	RepoID                int64      `gorm:"column:repo_id"                           json:"repo_id"`
	RepoFullName          string     `gorm:"column:repo_full_name"                    json:"repo_full_name"`
	UserID                *int64     `gorm:"column:user_id"                           json:"user_id"`
	UserLogin             string     `gorm:"column:user_login"                        json:"user_login"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime:false"   json:"created_at"`
	ClosedAt              *time.Time `gorm:"column:closed_at"                         json:"closed_at"`
	MergedAt              *time.Time `gorm:"column:merged_at"                         json:"merged_at"`
	NumComments           int        `gorm:"column:num_comments"                      json:"num_comments"`
	NumReviewComments     int        `gorm:"column:num_review_comments"               json:"num_review_comments"`
	NumCommitsAfterReview int        `gorm:"column:num_commits_after_review"          json:"num_commits_after_review"`
	Agent                 string     `gorm:"column:agent"                             json:"agent"`
	AuthorType            string     `gorm:"column:author_type"                       json:"author_type"`
	AuthorLogin           string     `gorm:"column:author_login"                      json:"author_login"`
	ReviewDurationHours   float64    `gorm:"column:review_duration_hours"             json:"review_duration_hours"`
	Merged                int        `gorm:"column:merged"                            json:"merged"`
}

// AIPullRequest is a row of the enriched AI cohort artifact.
type AIPullRequest struct {
	CohortRow        `gorm:"embedded"`
	AuthorProvider   *string `gorm:"column:author_provider"    json:"author_provider"`
	ClosedLoop       *int    `gorm:"column:closed_loop"        json:"closed_loop"`
	ClosedLoopStatus string  `gorm:"column:closed_loop_status" json:"closed_loop_status"`
}

// TableName specifies the table name for GORM.
func (AIPullRequest) TableName() string {
	return "pr_ai_filtered"
}

// HumanPullRequest is a row of the enriched human cohort artifact.
type HumanPullRequest struct {
	CohortRow `gorm:"embedded"`
}

// TableName specifies the table name for GORM.
func (HumanPullRequest) TableName() string {
	return "pr_human_filtered"
}

func (e Enriched) cohortRow() CohortRow {
	agent := e.Provider
	if e.Origin == OriginHuman {
		agent = HumanAgent
	}
	return CohortRow{
		ID:                    e.ID,
		RepoID:                e.RepoID,
		RepoFullName:          e.RepoFullName,
		UserID:                e.UserID,
		UserLogin:             e.UserLogin,
		CreatedAt:             e.CreatedAt,
		ClosedAt:              e.ClosedAt,
		MergedAt:              e.MergedAt,
		NumComments:           e.NumComments,
		NumReviewComments:     e.NumReviewComments,
		NumCommitsAfterReview: e.NumCommitsAfterReview,
		Agent:                 agent,
		AuthorType:            e.AuthorType,
		AuthorLogin:           e.AuthorLogin,
		ReviewDurationHours:   e.ReviewDurationHours,
		Merged:                e.Merged,
	}
}

// AIRow converts an enriched AI pull request into its artifact row.
func (e Enriched) AIRow() AIPullRequest {
	return AIPullRequest{
		CohortRow:        e.cohortRow(),
		AuthorProvider:   e.AuthorProvider,
		ClosedLoop:       e.ClosedLoop.Column(),
		ClosedLoopStatus: e.ClosedLoop.String(),
	}
}

// HumanRow converts an enriched human pull request into its artifact row.
func (e Enriched) HumanRow() HumanPullRequest {
	return HumanPullRequest{CohortRow: e.cohortRow()}
}

// SortPullRequests orders rows by repository, creation time and id so that
// artifacts are reproducible across runs.
func SortPullRequests(prs []PullRequest) {
	sort.SliceStable(prs, func(i, j int) bool {
		a, b := prs[i], prs[j]
		if a.RepoFullName != b.RepoFullName {
			return a.RepoFullName < b.RepoFullName
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
