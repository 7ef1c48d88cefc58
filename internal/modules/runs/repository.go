package runs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/internal/database"
)

// Repository handles run-history persistence
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new run repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "runs").Logger(),
	}
}

// InitSchema creates the runs table if it does not exist
func (r *Repository) InitSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			drift REAL NOT NULL,
			risk_free REAL NOT NULL,
			sigma REAL NOT NULL,
			dividend_yield REAL NOT NULL,
			spot REAL NOT NULL,
			strike REAL NOT NULL,
			maturity REAL NOT NULL,
			steps_per_year INTEGER NOT NULL,
			runs INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			bs_call REAL NOT NULL,
			bs_put REAL NOT NULL,
			value_call REAL NOT NULL,
			value_put REAL NOT NULL,
			cash_flow_call REAL NOT NULL,
			cash_flow_put REAL NOT NULL,
			pnl_call REAL NOT NULL,
			pnl_put REAL NOT NULL,
			cash_call REAL NOT NULL,
			cash_put REAL NOT NULL,
			empirical_call REAL NOT NULL,
			empirical_put REAL NOT NULL,
			avg_realized_vol REAL NOT NULL
		)
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}
	return nil
}

// Create inserts a new run and returns its id
func (r *Repository) Create(run *Run) (int64, error) {
	query := `
		INSERT INTO runs (
			created_at, drift, risk_free, sigma, dividend_yield, spot, strike,
			maturity, steps_per_year, runs, seed, bs_call, bs_put,
			value_call, value_put, cash_flow_call, cash_flow_put,
			pnl_call, pnl_put, cash_call, cash_put,
			empirical_call, empirical_put, avg_realized_vol
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().Format("2006-01-02 15:04:05")

	result, err := r.db.Exec(
		query,
		createdAt, run.Drift, run.RiskFree, run.Sigma, run.DividendYield,
		run.Spot, run.Strike, run.Maturity, run.StepsPerYear, run.Runs,
		int64(run.Seed), run.BSCall, run.BSPut,
		run.ValueCall, run.ValuePut, run.CashFlowCall, run.CashFlowPut,
		run.PnLCall, run.PnLPut, run.CashCall, run.CashPut,
		run.EmpiricalCall, run.EmpiricalPut, run.AvgRealizedVol,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	run.ID = id
	run.CreatedAt = createdAt
	return id, nil
}

// List returns the most recent runs, newest first
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, created_at, drift, risk_free, sigma, dividend_yield, spot,
			strike, maturity, steps_per_year, runs, seed, bs_call, bs_put,
			value_call, value_put, cash_flow_call, cash_flow_put,
			pnl_call, pnl_put, cash_call, cash_put,
			empirical_call, empirical_put, avg_realized_vol
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

// GetByID returns one run, or sql.ErrNoRows if absent
func (r *Repository) GetByID(id int64) (*Run, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, drift, risk_free, sigma, dividend_yield, spot,
			strike, maturity, steps_per_year, runs, seed, bs_call, bs_put,
			value_call, value_put, cash_flow_call, cash_flow_put,
			pnl_call, pnl_put, cash_call, cash_put,
			empirical_call, empirical_put, avg_realized_vol
		FROM runs
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, sql.ErrNoRows
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOlderThan removes runs created before the cutoff and returns how many
// rows were deleted. Used by the scheduled maintenance job.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM runs WHERE created_at < ?`,
		cutoff.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected()
}

// Latest returns the most recent run, or sql.ErrNoRows when the table is empty
func (r *Repository) Latest() (*Run, error) {
	list, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, sql.ErrNoRows
	}
	return &list[0], nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var seed int64
	err := rows.Scan(
		&run.ID, &run.CreatedAt, &run.Drift, &run.RiskFree, &run.Sigma,
		&run.DividendYield, &run.Spot, &run.Strike, &run.Maturity,
		&run.StepsPerYear, &run.Runs, &seed, &run.BSCall, &run.BSPut,
		&run.ValueCall, &run.ValuePut, &run.CashFlowCall, &run.CashFlowPut,
		&run.PnLCall, &run.PnLPut, &run.CashCall, &run.CashPut,
		&run.EmpiricalCall, &run.EmpiricalPut, &run.AvgRealizedVol,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Seed = uint64(seed)
	return run, nil
}
