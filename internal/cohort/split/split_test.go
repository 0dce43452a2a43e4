package split

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/qualify"
)

func ptr[T any](v T) *T { return &v }

var created = time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)

func qualified() qualify.Qualified {
	return qualify.Repositories([]model.Repository{
		{ID: 1, FullName: "big/repo", Stars: 5000},
		{ID: 2, FullName: "tiny/repo", Stars: 10},
	})
}

func TestExplicitOriginSchema_Partition(t *testing.T) {
	rows := []model.SourcePullRequest{
		{ID: 1, RepoID: ptr(int64(1)), Agent: ptr("OpenAI_Codex"), CreatedAt: created},
		{ID: 2, RepoID: ptr(int64(1)), Agent: ptr("human"), CreatedAt: created},
		{ID: 3, RepoID: ptr(int64(1)), CreatedAt: created},
		{ID: 4, RepoID: ptr(int64(2)), Agent: ptr("Devin"), CreatedAt: created},
		{ID: 5, RepoFullName: ptr("big/repo"), Agent: ptr("human"), CreatedAt: created},
	}
	snapshot := append([]model.SourcePullRequest(nil), rows...)

	c := ExplicitOriginSchema{}.Partition(rows, qualified())

	require.Len(t, c.AI, 2)
	require.Len(t, c.Human, 2)
	assert.Equal(t, 1, c.Dropped)
	assert.Equal(t, "OpenAI_Codex", c.AI[0].Provider)
	assert.Equal(t, model.OriginAI, c.AI[1].Origin, "missing agent counts as AI")
	assert.Equal(t, int64(5), c.Human[1].ID)
	assert.Equal(t, "big/repo", c.Human[1].RepoFullName)
	assert.Equal(t, snapshot, rows, "input must not be mutated")
}

func TestExplicitOriginSchema_HumanAgentMatchesExactly(t *testing.T) {
	rows := []model.SourcePullRequest{
		{ID: 1, RepoID: ptr(int64(1)), Agent: ptr("human"), CreatedAt: created},
		{ID: 2, RepoID: ptr(int64(1)), Agent: ptr("Human"), CreatedAt: created},
		{ID: 3, RepoID: ptr(int64(1)), Agent: ptr(" human "), CreatedAt: created},
		{ID: 4, RepoID: ptr(int64(1)), Agent: ptr("HUMAN"), CreatedAt: created},
	}

	c := ExplicitOriginSchema{}.Partition(rows, qualified())

	require.Len(t, c.Human, 1)
	assert.Equal(t, int64(1), c.Human[0].ID)
	require.Len(t, c.AI, 3)
	for _, pr := range c.AI {
		assert.Equal(t, model.OriginAI, pr.Origin)
	}
}

func TestExplicitOriginSchema_UnionIsInputWhenAllQualify(t *testing.T) {
	rows := []model.SourcePullRequest{
		{ID: 1, RepoID: ptr(int64(1)), Agent: ptr("Copilot"), CreatedAt: created},
		{ID: 2, RepoID: ptr(int64(1)), Agent: ptr("human"), CreatedAt: created},
		{ID: 3, RepoID: ptr(int64(1)), Agent: ptr("Cursor"), CreatedAt: created},
	}

	c := ExplicitOriginSchema{}.Partition(rows, qualified())

	seen := map[int64]int{}
	for _, pr := range append(c.AI, c.Human...) {
		seen[pr.ID]++
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, seen)
}

func TestFlagJoinSchema_Partition(t *testing.T) {
	rows := []model.SourcePullRequest{
		{ID: 1, RepoID: ptr(int64(1)), IsAI: ptr(true), CreatedAt: created},
		{ID: 2, RepoID: ptr(int64(1)), IsAI: ptr(false), CreatedAt: created},
		{ID: 3, RepoID: ptr(int64(2)), IsAI: ptr(true), CreatedAt: created},
		{ID: 4, RepoID: ptr(int64(99)), IsAI: ptr(false), CreatedAt: created},
		{ID: 5, RepoID: ptr(int64(1)), CreatedAt: created},
	}

	c := FlagJoinSchema{}.Partition(rows, qualified())

	require.Len(t, c.AI, 1)
	require.Len(t, c.Human, 2)
	assert.Equal(t, 2, c.Dropped)
	assert.Equal(t, int64(1), c.AI[0].ID)
	assert.Empty(t, c.AI[0].Provider, "flag schema carries no agent name")
	for _, pr := range append(c.AI, c.Human...) {
		assert.Equal(t, int64(1), pr.RepoID)
	}
}

func TestReviewProviderHint(t *testing.T) {
	row := model.SourcePullRequest{Agent: ptr("Devin")}
	assert.Empty(t, ExplicitOriginSchema{}.ReviewProviderHint(row))
	assert.Empty(t, FlagJoinSchema{}.ReviewProviderHint(row))
}

func TestDetect(t *testing.T) {
	a, err := Detect([]string{"id", "agent", "is_ai"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", a.Name())

	a, err = Detect([]string{"id", "IS_AI", "repo_id"})
	require.NoError(t, err)
	assert.Equal(t, "flag", a.Name())

	_, err = Detect([]string{"id", "created_at"})
	assert.ErrorIs(t, err, model.ErrUnknownSchema)
}

func TestForVariant(t *testing.T) {
	a, err := ForVariant("flag", []string{"agent"})
	require.NoError(t, err)
	assert.IsType(t, FlagJoinSchema{}, a)

	a, err = ForVariant("auto", []string{"agent"})
	require.NoError(t, err)
	assert.IsType(t, ExplicitOriginSchema{}, a)

	_, err = ForVariant("csv", nil)
	assert.ErrorContains(t, err, "unknown source schema")
}
