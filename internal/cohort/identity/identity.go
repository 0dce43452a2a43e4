// Package identity attaches author metadata to cohort rows.
package identity

import "github.com/festy23/aidev_cohorts/internal/cohort/model"

// Directory indexes users by id.
type Directory map[int64]model.User

// NewDirectory builds a Directory. Later duplicates win.
func NewDirectory(users []model.User) Directory {
	d := make(Directory, len(users))
	for _, u := range users {
		d[u.ID] = u
	}
	return d
}

func (d Directory) lookup(pr model.PullRequest) (model.User, bool) {
	if pr.UserID == nil {
		return model.User{}, false
	}
	u, ok := d[*pr.UserID]
	return u, ok
}

// JoinAI left-joins AI rows with the directory, attaching type, login and provider.
func (d Directory) JoinAI(prs []model.PullRequest) []model.Enriched {
	out := make([]model.Enriched, len(prs))
	for i, pr := range prs {
		out[i].PullRequest = pr
		if u, ok := d.lookup(pr); ok {
			out[i].Identity = model.Identity{
				AuthorType:     u.Type,
				AuthorLogin:    u.Login,
				AuthorProvider: u.Provider,
			}
		}
	}
	return out
}

// JoinHuman left-joins human rows with the directory, attaching type and login.
func (d Directory) JoinHuman(prs []model.PullRequest) []model.Enriched {
	out := make([]model.Enriched, len(prs))
	for i, pr := range prs {
		out[i].PullRequest = pr
		if u, ok := d.lookup(pr); ok {
			out[i].Identity = model.Identity{
				AuthorType:  u.Type,
				AuthorLogin: u.Login,
			}
		}
	}
	return out
}
