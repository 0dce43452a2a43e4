package model

import (
	"strings"
	"time"
)

// Origin tags which cohort a pull request belongs to.
type Origin string

const (
	OriginAI    Origin = "ai"
	OriginHuman Origin = "human"
)

// HumanAgent is the agent value that marks human-authored rows.
const HumanAgent = "human"

// PullRequest is a normalized cohort row. Counts are never missing: absent
// source values are defaulted by Normalize.
type PullRequest struct {
	ID           int64
	RepoID       int64
	RepoFullName string
	UserID       *int64
	UserLogin    string
	CreatedAt    time.Time
	ClosedAt     *time.Time
	MergedAt     *time.Time
	// MergedFlag carries a source boolean merge column when the schema has one.
	MergedFlag            *bool
	NumComments           int
	NumReviewComments     int
	NumCommitsAfterReview int
	Origin                Origin
	// Provider is the AI agent/vendor tag; empty for human rows.
	Provider string
	// ReviewProvider is the reviewing automation's provider, when known.
	ReviewProvider string
}

// CountDefaults is the default applied to each optional count column when
// the source does not provide it.
var CountDefaults = map[string]int{
	"num_comments":             0,
	"num_review_comments":      0,
	"num_commits_after_review": 0,
}

func countOrDefault(column string, v *int) int {
	if v != nil {
		return *v
	}
	return CountDefaults[column]
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Normalize projects a source row into a cohort row for the given origin.
// Timestamps are converted to UTC and missing counts take their defaults.
// repo supplies the repository identity when the source row lacks it.
func Normalize(src SourcePullRequest, origin Origin, repo Repository) PullRequest {
	pr := PullRequest{
		ID:                    src.ID,
		RepoID:                repo.ID,
		RepoFullName:          repo.FullName,
		UserID:                src.UserID,
		UserLogin:             deref(src.UserLogin),
		CreatedAt:             src.CreatedAt.UTC(),
		ClosedAt:              utcPtr(src.ClosedAt),
		MergedAt:              utcPtr(src.MergedAt),
		MergedFlag:            src.Merged,
		NumComments:           countOrDefault("num_comments", src.NumComments),
		NumReviewComments:     countOrDefault("num_review_comments", src.NumReviewComments),
		NumCommitsAfterReview: countOrDefault("num_commits_after_review", src.NumCommitsAfterReview),
		Origin:                origin,
	}
	if origin == OriginAI {
		pr.Provider = strings.TrimSpace(deref(src.Agent))
	}
	return pr
}
