// Package qualify restricts the analysis to popular repositories.
package qualify

import "github.com/festy23/aidev_cohorts/internal/cohort/model"

// Qualified is the set of repositories that passed the star threshold.
type Qualified struct {
	// Repositories in input order.
	Repositories []model.Repository
	// FullNames are the backfill fetch targets, in input order.
	FullNames []string

	byID   map[int64]model.Repository
	byName map[string]model.Repository
}

// Repositories keeps repositories with at least model.MinStars stars.
func Repositories(repos []model.Repository) Qualified {
	q := Qualified{
		byID:   make(map[int64]model.Repository),
		byName: make(map[string]model.Repository),
	}
	for _, r := range repos {
		if r.Stars < model.MinStars {
			continue
		}
		q.Repositories = append(q.Repositories, r)
		q.FullNames = append(q.FullNames, r.FullName)
		q.byID[r.ID] = r
		q.byName[r.FullName] = r
	}
	return q
}

// Len returns the number of qualifying repositories.
func (q Qualified) Len() int {
	return len(q.Repositories)
}

// ByID looks up a qualifying repository by id.
func (q Qualified) ByID(id int64) (model.Repository, bool) {
	r, ok := q.byID[id]
	return r, ok
}

// ByName looks up a qualifying repository by owner/name.
func (q Qualified) ByName(fullName string) (model.Repository, bool) {
	r, ok := q.byName[fullName]
	return r, ok
}

// Resolve finds the qualifying repository a source row belongs to, by
// repository id first and full name second.
func (q Qualified) Resolve(src model.SourcePullRequest) (model.Repository, bool) {
	if src.RepoID != nil {
		if r, ok := q.ByID(*src.RepoID); ok {
			return r, true
		}
	}
	if src.RepoFullName != nil {
		return q.ByName(*src.RepoFullName)
	}
	return model.Repository{}, false
}
