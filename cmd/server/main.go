package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/option-hedger/internal/config"
	"github.com/aristath/option-hedger/internal/database"
	"github.com/aristath/option-hedger/internal/modules/runs"
	"github.com/aristath/option-hedger/internal/modules/simulation"
	"github.com/aristath/option-hedger/internal/scheduler"
	"github.com/aristath/option-hedger/internal/server"
	"github.com/aristath/option-hedger/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{Level: "info", Pretty: true})
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting option hedger service")

	// Run-history database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	runRepo := runs.NewRepository(db, log)
	if err := runRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}
	archive := runs.NewArchive(cfg.ArchiveDir, log)
	runService := runs.NewService(runRepo, archive, log)

	aggregator := simulation.NewAggregator(log)

	// Background jobs
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	maintenance := scheduler.NewMaintenanceJob(scheduler.MaintenanceConfig{
		Log:           log,
		DB:            db,
		Repo:          runRepo,
		Archive:       archive,
		RetentionDays: cfg.RetentionDays,
	})
	if err := sched.AddJob("0 0 4 * * *", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}

	if cfg.RerunEnabled {
		rerun := scheduler.NewScenarioRerunJob(runRepo, aggregator, log)
		if err := sched.AddJob("0 30 4 * * *", rerun); err != nil {
			log.Fatal().Err(err).Msg("Failed to register scenario re-run job")
		}
	}

	// HTTP server
	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		DevMode:    cfg.DevMode,
		Simulation: simulation.NewHandler(aggregator, runService, log),
		Runs:       runs.NewHandler(runRepo, archive, log),
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
