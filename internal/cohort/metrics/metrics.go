// Package metrics derives the comparison fields of enriched cohort rows.
package metrics

import (
	"strings"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

// ReviewDurationHours returns the hours between creation and close. Rows that
// are still open yield 0, which understates their duration; negative spans
// are clamped to 0.
func ReviewDurationHours(pr model.PullRequest) float64 {
	if pr.ClosedAt == nil || pr.CreatedAt.IsZero() {
		return 0
	}
	h := pr.ClosedAt.Sub(pr.CreatedAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// Merged returns 1 when a merge timestamp is present, else the source merge
// flag when the schema has one, else 0.
func Merged(pr model.PullRequest) int {
	if pr.MergedAt != nil {
		return 1
	}
	if pr.MergedFlag != nil && *pr.MergedFlag {
		return 1
	}
	return 0
}

// ClosedLoopFor compares the authoring and reviewing providers.
func ClosedLoopFor(authorProvider, reviewProvider string) model.ClosedLoop {
	a := strings.TrimSpace(authorProvider)
	r := strings.TrimSpace(reviewProvider)
	if a == "" || r == "" {
		return model.ClosedLoopUnknown
	}
	if strings.EqualFold(a, r) {
		return model.ClosedLoopTrue
	}
	return model.ClosedLoopFalse
}

// authorProvider prefers the pull request's agent tag over the user's provider.
func authorProvider(e model.Enriched) string {
	if e.Provider != "" {
		return e.Provider
	}
	if e.AuthorProvider != nil {
		return *e.AuthorProvider
	}
	return ""
}

func derive(e model.Enriched) model.Enriched {
	e.ReviewDurationHours = ReviewDurationHours(e.PullRequest)
	e.Merged = Merged(e.PullRequest)
	return e
}

// DeriveAI computes metrics for AI rows, including the closed-loop flag.
func DeriveAI(rows []model.Enriched) []model.Enriched {
	out := make([]model.Enriched, len(rows))
	for i, e := range rows {
		e = derive(e)
		e.ClosedLoop = ClosedLoopFor(authorProvider(e), e.ReviewProvider)
		out[i] = e
	}
	return out
}

// DeriveHuman computes metrics for human rows. Closed loop does not apply.
func DeriveHuman(rows []model.Enriched) []model.Enriched {
	out := make([]model.Enriched, len(rows))
	for i, e := range rows {
		out[i] = derive(e)
	}
	return out
}
