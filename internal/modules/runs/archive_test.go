package runs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/option-hedger/internal/modules/simulation"
)

func TestArchiveRoundtrip(t *testing.T) {
	archive := NewArchive(t.TempDir(), zerolog.Nop())

	stats := []simulation.PathStat{
		{FinalPrice: 104.2, NetCall: 0.1, NetPut: -0.2, BSCall: 10.45, BSPut: 5.57},
		{FinalPrice: 95.8, NetCall: -0.3, NetPut: 0.15, BSCall: 10.45, BSPut: 5.57},
		{FinalPrice: 101.0, NetCall: 0.02, NetPut: 0.01, BSCall: 10.45, BSPut: 5.57},
	}
	require.NoError(t, archive.Write(7, stats))

	rows, err := archive.GetPathStats(7, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 0, rows[0].PathIdx)
	assert.Equal(t, 104.2, rows[0].FinalPrice)
	assert.Equal(t, -0.3, rows[1].NetCall)
	assert.Equal(t, 5.57, rows[2].BSPut)
}

func TestArchiveLimit(t *testing.T) {
	archive := NewArchive(t.TempDir(), zerolog.Nop())

	stats := make([]simulation.PathStat, 10)
	require.NoError(t, archive.Write(1, stats))

	rows, err := archive.GetPathStats(1, 4)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestArchivePrune(t *testing.T) {
	archive := NewArchive(t.TempDir(), zerolog.Nop())

	require.NoError(t, archive.Write(1, []simulation.PathStat{{FinalPrice: 100}}))
	require.NoError(t, archive.Write(2, []simulation.PathStat{{FinalPrice: 101}}))

	removed, err := archive.PruneOlderThan(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = archive.GetPathStats(1, 0)
	assert.Error(t, err, "archive file should be gone")
}

func TestArchivePruneMissingDir(t *testing.T) {
	archive := NewArchive("/nonexistent/archive/dir", zerolog.Nop())

	removed, err := archive.PruneOlderThan(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
