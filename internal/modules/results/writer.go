package results

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/internal/modules/simulation"
)

// Writer persists the per-path statistics table as a comma-separated file:
// one row per path, five columns (terminal price, net call, net put,
// reference call price, reference put price).
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a new results writer
func NewWriter(log zerolog.Logger) *Writer {
	return &Writer{
		log: log.With().Str("component", "results_writer").Logger(),
	}
}

// WriteFile writes the stats table to path, creating parent directories as
// needed. No header row; downstream consumers expect bare columns.
func (w *Writer) WriteFile(path string, stats []simulation.PathStat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	rows := make([]*simulation.PathStat, len(stats))
	for i := range stats {
		rows[i] = &stats[i]
	}

	if err := gocsv.MarshalWithoutHeaders(&rows, f); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	w.log.Info().Str("path", path).Int("rows", len(stats)).Msg("Results file written")
	return nil
}
