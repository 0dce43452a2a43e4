package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/aidev_cohorts/internal/backfill"
	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/source"
	"github.com/festy23/aidev_cohorts/internal/cohort/split"
	"github.com/festy23/aidev_cohorts/internal/cohort/window"
	"github.com/festy23/aidev_cohorts/internal/config"
	dbconfig "github.com/festy23/aidev_cohorts/internal/database/config"
	"github.com/festy23/aidev_cohorts/internal/database/migrate"
	"github.com/festy23/aidev_cohorts/internal/dataset"
)

// mockFetcher is a mock implementation of Fetcher for unit tests.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, repos []model.Repository, w window.Window) (backfill.Result, error) {
	args := m.Called(ctx, repos, w)
	return args.Get(0).(backfill.Result), args.Error(1)
}

var day0 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pipeline.db")), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, migrate.Migrate(db, dbconfig.DriverSQLite, "../../migrations"))

	exec := func(q string, args ...any) {
		require.NoError(t, db.Exec(q, args...).Error)
	}
	exec(`INSERT INTO source_repositories (id, full_name, stars) VALUES (1, 'octo/big', 900), (2, 'octo/small', 100), (3, 'acme/app', 500)`)
	exec(`INSERT INTO source_users (id, login, type, provider) VALUES (7, 'codex-agent', 'Bot', 'OpenAI'), (8, 'alice', 'User', NULL)`)

	insertAI := `INSERT INTO source_pull_requests (id, repo_id, repo_full_name, user_id, user_login, agent, created_at, closed_at, merged_at, num_comments) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	closed := day0.Add(48 * time.Hour)
	exec(insertAI, 100, 1, "octo/big", 7, "codex-agent", "OpenAI_Codex", day0, closed, closed, 2)
	exec(insertAI, 101, 3, "acme/app", 7, "codex-agent", "Devin", day0.Add(96*time.Hour), nil, nil, nil)
	exec(insertAI, 102, 2, "octo/small", 7, "codex-agent", "Devin", day0, nil, nil, nil)
	return db
}

func addHumanSourceRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	q := `INSERT INTO source_pull_requests (id, repo_id, repo_full_name, user_id, user_login, agent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	require.NoError(t, db.Exec(q, 103, 1, "octo/big", 8, "alice", "human", day0.Add(24*time.Hour)).Error)
	require.NoError(t, db.Exec(q, 104, 1, "octo/big", 8, "alice", "human", day0.AddDate(0, -1, 0)).Error)
}

func newService(db *gorm.DB, fetcher Fetcher, cfg config.PipelineConfig) *Service {
	logger := zap.NewNop().Sugar()
	return New(source.New(db, logger), fetcher, dataset.New(db, logger), cfg, logger)
}

func defaultConfig() config.PipelineConfig {
	return config.PipelineConfig{SourceSchema: split.SchemaAuto, BackfillEnabled: true, BackfillConcurrency: 2}
}

func readCohorts(t *testing.T, db *gorm.DB) ([]model.AIPullRequest, []model.HumanPullRequest) {
	t.Helper()
	var ai []model.AIPullRequest
	var human []model.HumanPullRequest
	require.NoError(t, db.Order("repo_full_name, created_at, id").Find(&ai).Error)
	require.NoError(t, db.Order("repo_full_name, created_at, id").Find(&human).Error)
	return ai, human
}

func TestRun_SourceHasHumanCohort(t *testing.T) {
	db := setupDB(t)
	addHumanSourceRows(t, db)
	fetcher := &mockFetcher{}

	run, err := newService(db, fetcher, defaultConfig()).Run(context.Background())
	require.NoError(t, err)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, split.SchemaExplicit, run.SourceSchema)
	assert.Equal(t, 2, run.QualifyingRepositories)
	assert.Equal(t, 2, run.AIRows)
	assert.Equal(t, 1, run.HumanRows)
	assert.False(t, run.Backfilled)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), run.WindowStart)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), run.WindowEnd)

	ai, human := readCohorts(t, db)
	require.Len(t, ai, 2)
	assert.Equal(t, "acme/app", ai[0].RepoFullName)
	assert.Zero(t, ai[0].ReviewDurationHours)
	assert.Zero(t, ai[0].Merged)

	codex := ai[1]
	assert.Equal(t, int64(100), codex.ID)
	assert.Equal(t, "OpenAI_Codex", codex.Agent)
	assert.InDelta(t, 48.0, codex.ReviewDurationHours, 1e-9)
	assert.Equal(t, 1, codex.Merged)
	assert.Equal(t, 2, codex.NumComments)
	assert.Equal(t, "Bot", codex.AuthorType)
	require.NotNil(t, codex.AuthorProvider)
	assert.Equal(t, "OpenAI", *codex.AuthorProvider)
	assert.Nil(t, codex.ClosedLoop)
	assert.Equal(t, "unknown", codex.ClosedLoopStatus)

	require.Len(t, human, 1)
	assert.Equal(t, int64(103), human[0].ID)
	assert.Equal(t, model.HumanAgent, human[0].Agent)
	assert.Equal(t, "User", human[0].AuthorType)

	latest, err := dataset.New(db, zap.NewNop().Sugar()).LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run.RunID, latest.RunID)
}

func TestRun_BackfillsEmptyHumanCohort(t *testing.T) {
	db := setupDB(t)
	fetcher := &mockFetcher{}

	userID := int64(8)
	backfilled := []model.PullRequest{
		{ID: 900, RepoID: 1, RepoFullName: "octo/big", UserID: &userID, UserLogin: "alice", CreatedAt: day0.Add(time.Hour), Origin: model.OriginHuman},
		{ID: 900, RepoID: 1, RepoFullName: "octo/big", UserID: &userID, UserLogin: "alice", CreatedAt: day0.Add(time.Hour), Origin: model.OriginHuman},
		{ID: 901, RepoID: 3, RepoFullName: "acme/app", CreatedAt: day0.AddDate(0, 2, 0), Origin: model.OriginHuman},
	}
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(repos []model.Repository) bool {
		return len(repos) == 2 && repos[0].FullName == "octo/big" && repos[1].FullName == "acme/app"
	}), mock.AnythingOfType("window.Window")).
		Return(backfill.Result{
			PullRequests: backfilled,
			Failures:     []backfill.Failure{{Repo: "acme/app", Page: 2, Err: errors.New("boom")}},
			Requests:     6,
		}, nil).Once()

	run, err := newService(db, fetcher, defaultConfig()).Run(context.Background())
	require.NoError(t, err)
	fetcher.AssertExpectations(t)

	assert.True(t, run.Backfilled)
	assert.Equal(t, int64(6), run.BackfillRequests)
	assert.Equal(t, []string{"acme/app"}, run.Failed())
	assert.Equal(t, 1, run.HumanRows)

	_, human := readCohorts(t, db)
	require.Len(t, human, 1)
	assert.Equal(t, int64(900), human[0].ID)
	assert.Equal(t, "alice", human[0].AuthorLogin)
}

func TestRun_OutOfWindowHumanRowsDoNotTriggerBackfill(t *testing.T) {
	db := setupDB(t)
	q := `INSERT INTO source_pull_requests (id, repo_id, repo_full_name, user_id, user_login, agent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	require.NoError(t, db.Exec(q, 104, 1, "octo/big", 8, "alice", "human", day0.AddDate(0, -1, 0)).Error)
	fetcher := &mockFetcher{}

	run, err := newService(db, fetcher, defaultConfig()).Run(context.Background())
	require.NoError(t, err)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)

	assert.False(t, run.Backfilled)
	assert.Zero(t, run.HumanRows)
	_, human := readCohorts(t, db)
	assert.Empty(t, human)
}

func TestRun_BackfillDisabled(t *testing.T) {
	db := setupDB(t)
	fetcher := &mockFetcher{}
	cfg := defaultConfig()
	cfg.BackfillEnabled = false

	run, err := newService(db, fetcher, cfg).Run(context.Background())
	require.NoError(t, err)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, run.HumanRows)
	assert.False(t, run.Backfilled)
}

func TestRun_BackfillFailureAbortsRun(t *testing.T) {
	db := setupDB(t)
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(backfill.Result{}, &backfill.APIError{Repo: "octo/big", Page: 1, Status: 401})

	_, err := newService(db, fetcher, defaultConfig()).Run(context.Background())
	require.Error(t, err)
	var apiErr *backfill.APIError
	assert.ErrorAs(t, err, &apiErr)

	_, err = dataset.New(db, zap.NewNop().Sugar()).LatestRun(context.Background())
	assert.ErrorIs(t, err, dataset.ErrNoRuns)
}

func TestRun_EmptyAICohort(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Exec(`UPDATE source_pull_requests SET agent = 'human'`).Error)

	_, err := newService(db, &mockFetcher{}, defaultConfig()).Run(context.Background())
	assert.ErrorIs(t, err, model.ErrEmptyCohort)

	ai, human := readCohorts(t, db)
	assert.Empty(t, ai)
	assert.Empty(t, human)
}

func TestRun_UnknownSchema(t *testing.T) {
	db := setupDB(t)
	cfg := defaultConfig()
	cfg.SourceSchema = "weird"

	_, err := newService(db, &mockFetcher{}, cfg).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select source schema")
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	db := setupDB(t)
	addHumanSourceRows(t, db)
	svc := newService(db, &mockFetcher{}, defaultConfig())

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	ai1, human1 := readCohorts(t, db)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	ai2, human2 := readCohorts(t, db)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, ai1, ai2)
	assert.Equal(t, human1, human2)
}

func TestDedupe(t *testing.T) {
	prs := []model.PullRequest{{ID: 1, UserLogin: "a"}, {ID: 2}, {ID: 1, UserLogin: "b"}}
	got := dedupe(prs)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].UserLogin)
	assert.Len(t, prs, 3)
}
