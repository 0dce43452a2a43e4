package backfill

import (
	"fmt"
	"strings"
	"time"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/window"
)

// CreatedAt parses the record's creation timestamp. A missing or invalid
// value makes the whole page malformed.
func CreatedAt(pr APIPullRequest) (time.Time, error) {
	created, err := time.Parse(time.RFC3339, pr.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: pull request %d created_at %q", ErrMalformedPage, pr.ID, pr.CreatedAt)
	}
	return created.UTC(), nil
}

// Keep reports whether a fetched record belongs to the human cohort: created
// inside the window, authored by a regular user account whose login does not
// look like a bot.
func Keep(pr APIPullRequest, w window.Window) (bool, error) {
	created, err := CreatedAt(pr)
	if err != nil {
		return false, err
	}
	if !w.Contains(created) {
		return false, nil
	}
	if pr.User == nil || pr.User.Type != model.AccountUser {
		return false, nil
	}
	return !strings.Contains(strings.ToLower(pr.User.Login), "bot"), nil
}

// Project converts a kept record into a human cohort row of repo.
func Project(pr APIPullRequest, repo model.Repository) (model.PullRequest, error) {
	created, err := CreatedAt(pr)
	if err != nil {
		return model.PullRequest{}, err
	}

	out := model.PullRequest{
		ID:                    pr.ID,
		RepoID:                repo.ID,
		RepoFullName:          repo.FullName,
		CreatedAt:             created,
		ClosedAt:              utc(pr.ClosedAt),
		MergedAt:              utc(pr.MergedAt),
		NumComments:           intOr(pr.Comments, model.CountDefaults["num_comments"]),
		NumReviewComments:     intOr(pr.ReviewComments, model.CountDefaults["num_review_comments"]),
		NumCommitsAfterReview: 0,
		Origin:                model.OriginHuman,
	}
	if pr.User != nil {
		id := pr.User.ID
		out.UserID = &id
		out.UserLogin = pr.User.Login
	}
	return out, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
