package simulation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/pkg/formulas"
)

// RunRecorder persists a finished batch. Implemented by the runs module.
type RunRecorder interface {
	Record(params Params, batch *BatchResult) (int64, error)
}

// Handler handles pricing and simulation HTTP requests
type Handler struct {
	aggregator *Aggregator
	recorder   RunRecorder
	log        zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(aggregator *Aggregator, recorder RunRecorder, log zerolog.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		recorder:   recorder,
		log:        log.With().Str("handler", "simulation").Logger(),
	}
}

// priceRequest is the body of POST /api/price
type priceRequest struct {
	Maturity      float64 `json:"maturity"`
	Strike        float64 `json:"strike"`
	Spot          float64 `json:"spot"`
	RiskFree      float64 `json:"risk_free"`
	Sigma         float64 `json:"sigma"`
	DividendYield float64 `json:"dividend_yield"`
}

// HandlePrice returns the closed-form Black-Scholes call/put price and d1/d2
func (h *Handler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	quote, err := formulas.BlackScholes(
		req.Maturity, req.Strike, req.Spot,
		req.RiskFree, req.Sigma, req.DividendYield,
	)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

// simulateRequest is the body of POST /api/simulate
type simulateRequest struct {
	Params
	Runs       int    `json:"runs"`
	Seed       uint64 `json:"seed"`
	Workers    int    `json:"workers"`
	SamplePath bool   `json:"sample_path"` // include a sample path with diagnostics
}

// simulateResponse augments the batch aggregates with an optional run id and
// sample-path diagnostics for charting.
type simulateResponse struct {
	*BatchResult
	RunID          int64     `json:"run_id,omitempty"`
	SamplePath     []float64 `json:"sample_path,omitempty"`
	SampleSmoothed []float64 `json:"sample_smoothed,omitempty"`
	SampleRollVol  []float64 `json:"sample_rolling_vol,omitempty"`
}

// HandleSimulate runs a full simulation batch and persists the run
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	batch, err := h.aggregator.Run(BatchConfig{
		Params:    req.Params,
		Runs:      req.Runs,
		Seed:      req.Seed,
		Workers:   req.Workers,
		KeepPaths: req.SamplePath,
	})
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := simulateResponse{BatchResult: batch}

	if req.SamplePath && len(batch.Paths) > 0 {
		sample := batch.Paths[0]
		resp.SamplePath = sample
		resp.SampleSmoothed = formulas.SmoothedPath(sample, 20)
		resp.SampleRollVol = formulas.RollingRealizedVol(sample, 20, req.StepsPerYear)
	}

	if h.recorder != nil {
		id, err := h.recorder.Record(req.Params, batch)
		if err != nil {
			// The batch itself is valid; persistence failure is reported but
			// does not discard the computed aggregates.
			h.log.Error().Err(err).Msg("Failed to record run")
		} else {
			resp.RunID = id
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
