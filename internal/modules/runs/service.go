package runs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/internal/modules/simulation"
)

// Service records finished simulation batches: one row in the run-history
// table plus a per-path archive file. Implements simulation.RunRecorder.
type Service struct {
	repo    *Repository
	archive *Archive
	log     zerolog.Logger
}

// NewService creates a new runs service
func NewService(repo *Repository, archive *Archive, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		archive: archive,
		log:     log.With().Str("service", "runs").Logger(),
	}
}

// Record persists a batch and returns the new run id
func (s *Service) Record(params simulation.Params, batch *simulation.BatchResult) (int64, error) {
	run := &Run{
		Drift:         params.Drift,
		RiskFree:      params.RiskFree,
		Sigma:         params.Sigma,
		DividendYield: params.DividendYield,
		Spot:          params.Spot,
		Strike:        params.Strike,
		Maturity:      params.Maturity,
		StepsPerYear:  params.StepsPerYear,
		Runs:          batch.Runs,
		Seed:          batch.Seed,

		BSCall: batch.Quote.Call,
		BSPut:  batch.Quote.Put,

		ValueCall:      batch.ValueCall,
		ValuePut:       batch.ValuePut,
		CashFlowCall:   batch.CashFlow.Call,
		CashFlowPut:    batch.CashFlow.Put,
		PnLCall:        batch.PnL.Call,
		PnLPut:         batch.PnL.Put,
		CashCall:       batch.Cash.Call,
		CashPut:        batch.Cash.Put,
		EmpiricalCall:  batch.EmpiricalPrice.Call,
		EmpiricalPut:   batch.EmpiricalPrice.Put,
		AvgRealizedVol: batch.AvgRealizedVol,
	}

	id, err := s.repo.Create(run)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	if err := s.archive.Write(id, batch.Stats); err != nil {
		// The history row stands on its own; a missing archive only degrades
		// the inspection endpoints.
		s.log.Error().Err(err).Int64("run_id", id).Msg("Failed to write run archive")
	}

	return id, nil
}
