//go:build unit || integration

package dataset

import (
	"time"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

const repoMigrations = "../../migrations"

func aiRow(id int64, repo string, created time.Time, loop model.ClosedLoop) model.AIPullRequest {
	e := model.Enriched{
		PullRequest: model.PullRequest{ID: id, RepoID: 1, RepoFullName: repo, CreatedAt: created, Origin: model.OriginAI, Provider: "Devin"},
		Metrics:     model.Metrics{ReviewDurationHours: 1.5, Merged: 1, ClosedLoop: loop},
	}
	return e.AIRow()
}

func humanRow(id int64, repo string, created time.Time) model.HumanPullRequest {
	e := model.Enriched{
		PullRequest: model.PullRequest{ID: id, RepoID: 1, RepoFullName: repo, CreatedAt: created, Origin: model.OriginHuman},
	}
	return e.HumanRow()
}
