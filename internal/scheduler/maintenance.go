package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/internal/database"
	"github.com/aristath/option-hedger/internal/modules/runs"
)

// MaintenanceJob keeps the run store healthy: prunes run history and archive
// files past the retention window and checkpoints the WAL.
type MaintenanceJob struct {
	log       zerolog.Logger
	db        *database.DB
	repo      *runs.Repository
	archive   *runs.Archive
	retention time.Duration
}

// MaintenanceConfig holds configuration for the maintenance job
type MaintenanceConfig struct {
	Log           zerolog.Logger
	DB            *database.DB
	Repo          *runs.Repository
	Archive       *runs.Archive
	RetentionDays int
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(cfg MaintenanceConfig) *MaintenanceJob {
	return &MaintenanceJob{
		log:       cfg.Log.With().Str("job", "maintenance").Logger(),
		db:        cfg.DB,
		repo:      cfg.Repo,
		archive:   cfg.Archive,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run executes the maintenance pass
func (j *MaintenanceJob) Run() error {
	start := time.Now()
	cutoff := start.Add(-j.retention)

	pruned, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune run history")
		return err
	}

	removed, err := j.archive.PruneOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune archives")
		return err
	}

	j.checkpointWAL()

	j.log.Info().
		Int64("runs_pruned", pruned).
		Int("archives_removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Maintenance completed")

	return nil
}

// checkpointWAL runs a passive WAL checkpoint and warns when the log grows
func (j *MaintenanceJob) checkpointWAL() {
	var mode, busy, logFrames, checkpointed int
	err := j.db.QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&mode, &busy, &logFrames, &checkpointed)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to checkpoint WAL")
		return
	}

	if logFrames > 1000 {
		j.log.Warn().
			Int("wal_frames", logFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large")
	} else {
		j.log.Debug().Int("wal_frames", logFrames).Msg("WAL checkpoint OK")
	}
}
