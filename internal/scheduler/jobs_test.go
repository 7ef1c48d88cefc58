package scheduler

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/option-hedger/internal/database"
	"github.com/aristath/option-hedger/internal/modules/runs"
	"github.com/aristath/option-hedger/internal/modules/simulation"
)

func newTestStore(t *testing.T) (*database.DB, *runs.Repository, *runs.Archive) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := runs.NewRepository(db, zerolog.Nop())
	require.NoError(t, repo.InitSchema())
	archive := runs.NewArchive(filepath.Join(dir, "archives"), zerolog.Nop())
	return db, repo, archive
}

func TestScenarioRerunNoRuns(t *testing.T) {
	_, repo, _ := newTestStore(t)

	job := NewScenarioRerunJob(repo, simulation.NewAggregator(zerolog.Nop()), zerolog.Nop())
	assert.Equal(t, "scenario_rerun", job.Name())
	assert.NoError(t, job.Run(), "empty history is not an error")
}

func TestScenarioRerunReplaysLatest(t *testing.T) {
	_, repo, archive := newTestStore(t)

	agg := simulation.NewAggregator(zerolog.Nop())
	params := simulation.Params{
		Drift: 0.05, RiskFree: 0.05, Sigma: 0.2,
		Spot: 100, Strike: 100, Maturity: 1, StepsPerYear: 52,
	}
	batch, err := agg.Run(simulation.BatchConfig{Params: params, Runs: 10, Seed: 17})
	require.NoError(t, err)

	_, err = runs.NewService(repo, archive, zerolog.Nop()).Record(params, batch)
	require.NoError(t, err)

	job := NewScenarioRerunJob(repo, agg, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestMaintenanceJob(t *testing.T) {
	db, repo, archive := newTestStore(t)

	_, err := repo.Create(&runs.Run{
		Drift: 0.05, RiskFree: 0.05, Sigma: 0.2,
		Spot: 100, Strike: 100, Maturity: 1, StepsPerYear: 260,
		Runs: 10, Seed: 1,
	})
	require.NoError(t, err)
	require.NoError(t, archive.Write(1, []simulation.PathStat{{FinalPrice: 100}}))

	// Negative retention pushes the cutoff into the future, so everything
	// just written is already stale
	job := NewMaintenanceJob(MaintenanceConfig{
		Log:           zerolog.Nop(),
		DB:            db,
		Repo:          repo,
		Archive:       archive,
		RetentionDays: -1,
	})
	assert.Equal(t, "maintenance", job.Name())
	require.NoError(t, job.Run())

	list, err := repo.List(10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
