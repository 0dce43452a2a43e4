// Package main runs the cohort pipeline once and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/festy23/aidev_cohorts/internal/backfill"
	"github.com/festy23/aidev_cohorts/internal/cohort/source"
	"github.com/festy23/aidev_cohorts/internal/config"
	dbconfig "github.com/festy23/aidev_cohorts/internal/database/config"
	"github.com/festy23/aidev_cohorts/internal/database/database"
	"github.com/festy23/aidev_cohorts/internal/database/migrate"
	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/pipeline"
	"github.com/festy23/aidev_cohorts/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
		return 1
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := dbconfig.LoadConfigFromEnv()
	db, err := database.NewWithConfig(dbCfg)
	if err != nil {
		log.Errorw("Failed to connect to database", "driver", dbCfg.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("Failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db, dbCfg.Driver, migrate.GetMigrationsPath()); err != nil {
		log.Errorw("Failed to apply migrations", "error", err)
		return 1
	}

	var fetcher pipeline.Fetcher
	if cfg.Pipeline.BackfillEnabled {
		client := backfill.NewClient(cfg.GitHub, nil)
		fetcher = backfill.NewFetcher(client, backfill.OptionsFromConfig(cfg.GitHub, cfg.Pipeline), log.Named("backfill"))
	}

	svc := pipeline.New(
		source.New(db, log.Named("source")),
		fetcher,
		dataset.New(db, log.Named("dataset")),
		cfg.Pipeline,
		log.Named("pipeline"),
	)

	result, err := svc.Run(ctx)
	if err != nil {
		log.Errorw("Pipeline run failed", "error", err)
		return 1
	}

	log.Infow("Artifacts written",
		"run_id", result.RunID,
		"ai_rows", result.AIRows,
		"human_rows", result.HumanRows,
		"window_start", result.WindowStart.Format("2006-01-02"),
		"window_end", result.WindowEnd.Format("2006-01-02"),
		"failed_repositories", result.Failed(),
	)
	return 0
}
