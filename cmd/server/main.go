// Package main provides the entry point for the cohort inspection HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festy23/aidev_cohorts/internal/config"
	dbconfig "github.com/festy23/aidev_cohorts/internal/database/config"
	"github.com/festy23/aidev_cohorts/internal/database/database"
	"github.com/festy23/aidev_cohorts/internal/dataset"
	"github.com/festy23/aidev_cohorts/internal/health"
	"github.com/festy23/aidev_cohorts/internal/middleware"
	statisticsRouter "github.com/festy23/aidev_cohorts/internal/statistics/router"
	"github.com/festy23/aidev_cohorts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
		return 1
	}

	cfg := config.LoadServerAppFromEnv()
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

	dbCfg := dbconfig.LoadConfigFromEnv()
	db, err := database.NewWithConfig(dbCfg)
	if err != nil {
		log.Errorw("Failed to connect to database", "driver", dbCfg.Driver, "error", err)
		return 1
	}
	defer func() { _ = database.Close(db) }()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	healthHandler := health.New(db, dataset.New(db, log), log)
	r.GET("/health", healthHandler.Check)
	statisticsRouter.RegisterRoutes(r, db, log)

	srv := cfg.Server.NewHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Inspection server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorw("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
		return 1
	}
	log.Infow("Server stopped")
	return 0
}
