package runs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // read-only archive accessor
	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/internal/database"
	"github.com/aristath/option-hedger/internal/modules/simulation"
)

// Archive stores the per-path statistics of each run in a standalone SQLite
// file (run_<id>.db) under the archive directory. Writes go through the pure
// Go driver; reads open the file read-only with the cgo driver so an
// inspection request can never mutate an archive.
type Archive struct {
	dir string
	log zerolog.Logger
}

// NewArchive creates a new archive accessor rooted at dir
func NewArchive(dir string, log zerolog.Logger) *Archive {
	return &Archive{
		dir: dir,
		log: log.With().Str("component", "run_archive").Logger(),
	}
}

// Write persists the per-path stats table for a run
func (a *Archive) Write(runID int64, stats []simulation.PathStat) error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := database.New(a.path(runID))
	if err != nil {
		return fmt.Errorf("failed to open archive for run %d: %w", runID, err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS path_stats (
			path_idx INTEGER PRIMARY KEY,
			s_t REAL NOT NULL,
			net_c REAL NOT NULL,
			net_p REAL NOT NULL,
			bs_c REAL NOT NULL,
			bs_p REAL NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO path_stats (path_idx, s_t, net_c, net_p, bs_c, bs_p) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stats {
		if _, err := stmt.Exec(i, s.FinalPrice, s.NetCall, s.NetPut, s.BSCall, s.BSPut); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert path stat %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive: %w", err)
	}

	a.log.Debug().Int64("run_id", runID).Int("paths", len(stats)).Msg("Run archive written")
	return nil
}

// GetPathStats reads back the per-path stats for a run, read-only
func (a *Archive) GetPathStats(runID int64, limit int) ([]PathRow, error) {
	if limit <= 0 {
		limit = 1000
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", a.path(runID)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive for run %d: %w", runID, err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT path_idx, s_t, net_c, net_p, bs_c, bs_p
		FROM path_stats
		ORDER BY path_idx
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive for run %d: %w", runID, err)
	}
	defer rows.Close()

	var result []PathRow
	for rows.Next() {
		var row PathRow
		if err := rows.Scan(&row.PathIdx, &row.FinalPrice, &row.NetCall, &row.NetPut, &row.BSCall, &row.BSPut); err != nil {
			return nil, fmt.Errorf("failed to scan path stat: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// PruneOlderThan deletes archive files whose modification time predates the
// cutoff. Returns the number of files removed.
func (a *Archive) PruneOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read archive directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		full := filepath.Join(a.dir, entry.Name())
		if err := os.Remove(full); err != nil {
			a.log.Error().Err(err).Str("path", full).Msg("Failed to remove stale archive")
			continue
		}
		removed++
	}

	return removed, nil
}

func (a *Archive) path(runID int64) string {
	return filepath.Join(a.dir, fmt.Sprintf("run_%d.db", runID))
}
