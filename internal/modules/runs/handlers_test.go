package runs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/option-hedger/internal/modules/simulation"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Repository, *Archive) {
	t.Helper()

	repo := newTestRepo(t)
	archive := NewArchive(t.TempDir(), zerolog.Nop())
	h := NewHandler(repo, archive, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/api/runs", h.HandleList)
	r.Get("/api/runs/{id}", h.HandleGet)
	r.Get("/api/runs/{id}/paths", h.HandleGetPaths)
	return r, repo, archive
}

func TestHandleListEmpty(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty history is an empty array, not null")
}

func TestHandleListLimit(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.Runs = 100 * (i + 1)
		_, err := repo.Create(run)
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var list []Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, 300, list[0].Runs, "newest first")
	assert.Equal(t, 200, list[1].Runs)
}

func TestHandleGet(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	id, err := repo.Create(sampleRun())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var run Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, id, run.ID)
	assert.InDelta(t, 10.45, run.BSCall, 1e-12)
	assert.Equal(t, uint64(42), run.Seed)
}

func TestHandleGetMissing(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestHandleGetBadID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid run id")
}

func TestHandleGetPaths(t *testing.T) {
	router, _, archive := newTestRouter(t)

	stats := []simulation.PathStat{
		{FinalPrice: 104.2, NetCall: 0.1, NetPut: -0.2, BSCall: 10.45, BSPut: 5.57},
		{FinalPrice: 95.8, NetCall: -0.3, NetPut: 0.15, BSCall: 10.45, BSPut: 5.57},
	}
	require.NoError(t, archive.Write(1, stats))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/1/paths?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []PathRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1, "limit applies to archive rows")
	assert.Equal(t, 104.2, rows[0].FinalPrice)
}

func TestHandleGetPathsMissingArchive(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/42/paths", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
