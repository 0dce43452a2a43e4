// Package source reads the input dataset tables.
package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

// requiredColumns must exist in the pull requests table; every other column
// of model.SourcePullRequest is optional.
var requiredColumns = []string{"id", "created_at"}

// pullRequestColumns lists the columns the loader understands.
var pullRequestColumns = []string{
	"id",
	"repo_id",
	"repo_full_name",
	"user_id",
	"user_login",
	"agent",
	"is_ai",
	"created_at",
	"closed_at",
	"merged_at",
	"merged",
	"num_comments",
	"num_review_comments",
	"num_commits_after_review",
}

// Repository defines read access to the source dataset.
type Repository interface {
	// Load reads the pull requests, repositories and users tables. Optional
	// pull request columns that do not exist read as nil.
	Load(ctx context.Context) (model.Tables, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new source repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Load reads the three source tables.
func (r *repository) Load(ctx context.Context) (model.Tables, error) {
	db := r.db.WithContext(ctx)

	columns, err := r.presentColumns(db)
	if err != nil {
		return model.Tables{}, err
	}

	var tables model.Tables
	tables.Columns = columns

	if err := db.Table(model.SourcePullRequest{}.TableName()).
		Select(columns).
		Order("id ASC").
		Find(&tables.PullRequests).Error; err != nil {
		r.logger.Errorw("Failed to load source pull requests", "error", err)
		return model.Tables{}, fmt.Errorf("load pull requests: %w", err)
	}

	if err := db.Order("id ASC").Find(&tables.Repositories).Error; err != nil {
		r.logger.Errorw("Failed to load source repositories", "error", err)
		return model.Tables{}, fmt.Errorf("load repositories: %w", err)
	}

	users, err := r.loadUsers(db)
	if err != nil {
		return model.Tables{}, err
	}
	tables.Users = users

	r.logger.Infow("Source dataset loaded",
		"pull_requests", len(tables.PullRequests),
		"repositories", len(tables.Repositories),
		"users", len(tables.Users),
		"columns", strings.Join(columns, ","),
	)
	return tables, nil
}

// presentColumns probes which known pull request columns exist.
func (r *repository) presentColumns(db *gorm.DB) ([]string, error) {
	migrator := db.Migrator()
	table := model.SourcePullRequest{}.TableName()
	if !migrator.HasTable(table) {
		return nil, fmt.Errorf("source table %s does not exist", table)
	}

	var present []string
	for _, col := range pullRequestColumns {
		if migrator.HasColumn(table, col) {
			present = append(present, col)
		}
	}
	for _, col := range requiredColumns {
		if !slices.Contains(present, col) {
			return nil, fmt.Errorf("source table %s has no %s column", table, col)
		}
	}

	if missing := len(pullRequestColumns) - len(present); missing > 0 {
		r.logger.Debugw("Source pull requests table lacks optional columns", "missing", missing)
	}
	return present, nil
}

// loadUsers tolerates a users table without the provider column.
func (r *repository) loadUsers(db *gorm.DB) ([]model.User, error) {
	table := model.User{}.TableName()
	migrator := db.Migrator()
	if !migrator.HasTable(table) {
		r.logger.Warnw("Source users table missing, identities will be empty")
		return []model.User{}, nil
	}

	cols := []string{"id", "login", "type"}
	if migrator.HasColumn(table, "provider") {
		cols = append(cols, "provider")
	}

	var users []model.User
	if err := db.Table(table).Select(cols).Order("id ASC").Find(&users).Error; err != nil {
		r.logger.Errorw("Failed to load source users", "error", err)
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}
