// Package model defines the entities shared by the cohort pipeline stages.
package model

import "time"

// MinStars is the popularity threshold for qualifying repositories.
const MinStars = 500

// Repository is a row of the source repositories table.
type Repository struct {
	ID       int64  `gorm:"column:id;primaryKey" json:"id"`
	FullName string `gorm:"column:full_name"     json:"full_name"`
	Stars    int    `gorm:"column:stars"         json:"stars"`
}

// TableName specifies the table name for GORM.
func (Repository) TableName() string {
	return "source_repositories"
}

// Account types reported for pull request authors.
const (
	AccountUser = "User"
	AccountBot  = "Bot"
)

// User is a row of the source users table.
type User struct {
	ID       int64   `gorm:"column:id;primaryKey" json:"id"`
	Login    string  `gorm:"column:login"         json:"login"`
	Type     string  `gorm:"column:type"          json:"type"`
	Provider *string `gorm:"column:provider"      json:"provider,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "source_users"
}

// SourcePullRequest is a raw row of the source pull requests table. Optional
// columns are pointers: an absent column and a NULL value both read as nil.
type SourcePullRequest struct {
	ID                    int64      `gorm:"column:id;primaryKey"`
	RepoID                *int64     `gorm:"column:repo_id"`
	RepoFullName          *string    `gorm:"column:repo_full_name"`
	UserID                *int64     `gorm:"column:user_id"`
	UserLogin             *string    `gorm:"column:user_login"`
	Agent                 *string    `gorm:"column:agent"`
	IsAI                  *bool      `gorm:"column:is_ai"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	ClosedAt              *time.Time `gorm:"column:closed_at"`
	MergedAt              *time.Time `gorm:"column:merged_at"`
	Merged                *bool      `gorm:"column:merged"`
	NumComments           *int       `gorm:"column:num_comments"`
	NumReviewComments     *int       `gorm:"column:num_review_comments"`
	NumCommitsAfterReview *int       `gorm:"column:num_commits_after_review"`
}

// TableName specifies the table name for GORM.
func (SourcePullRequest) TableName() string {
	return "source_pull_requests"
}

// Tables is one snapshot of the three source tables.
type Tables struct {
	PullRequests []SourcePullRequest
	Repositories []Repository
	Users        []User
	// Columns lists the columns present in the pull requests table.
	Columns []string
}
