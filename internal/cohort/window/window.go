// Package window derives the calendar span of the AI cohort and bounds the
// human cohort to it.
package window

import (
	"time"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

const dateLayout = "2006-01-02"

// Window is an inclusive range of UTC calendar dates.
type Window struct {
	// Start is midnight UTC of the first day.
	Start time.Time
	// End is midnight UTC of the last day.
	End time.Time
}

func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Derive returns the window spanned by the created timestamps of ai.
func Derive(ai []model.PullRequest) (Window, error) {
	if len(ai) == 0 {
		return Window{}, model.ErrEmptyCohort
	}
	lo, hi := ai[0].CreatedAt, ai[0].CreatedAt
	for _, pr := range ai[1:] {
		if pr.CreatedAt.Before(lo) {
			lo = pr.CreatedAt
		}
		if pr.CreatedAt.After(hi) {
			hi = pr.CreatedAt
		}
	}
	return Window{Start: day(lo), End: day(hi)}, nil
}

// Contains reports whether the UTC date of t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Clamp returns the rows whose created date lies inside the window.
func (w Window) Clamp(prs []model.PullRequest) []model.PullRequest {
	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if w.Contains(pr.CreatedAt) {
			out = append(out, pr)
		}
	}
	return out
}

// String formats the window as "start..end".
func (w Window) String() string {
	return w.Start.Format(dateLayout) + ".." + w.End.Format(dateLayout)
}
