package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/option-hedger/pkg/formulas"
)

// BatchConfig configures one batch of independent path simulations.
type BatchConfig struct {
	Params    Params
	Runs      int    // number of independent paths
	Seed      uint64 // master seed; 0 means derive from wall clock
	Workers   int    // parallel workers; <= 0 means GOMAXPROCS
	KeepPaths bool   // retain full price paths on the result
}

// BatchResult holds the reduced statistics of a simulation batch.
// Immutable once returned.
type BatchResult struct {
	Quote formulas.BSQuote `json:"quote"` // closed-form reference at inception

	ValueCall float64 `json:"value_call"` // mean undiscounted terminal call payoff
	ValuePut  float64 `json:"value_put"`  // mean undiscounted terminal put payoff

	CashFlow Legs `json:"cash_flow"` // mean total cash flow per side
	PnL      Legs `json:"pnl"`       // mean raw hedge P&L per side
	Cash     Legs `json:"cash"`      // mean financed cash per side

	// EmpiricalPrice = mean P&L + mean cash flow + mean unwind cost,
	// where the unwind cost of a path is the negated terminal payoff.
	EmpiricalPrice Legs `json:"empirical_price"`

	AvgRealizedVol float64 `json:"avg_realized_vol"`

	FinalPrices []float64            `json:"-"` // terminal price distribution
	FinalShares []formulas.DeltaPair `json:"-"` // terminal shares-held distribution
	Stats       []PathStat           `json:"-"` // per-path 5-stat table
	Paths       [][]float64          `json:"-"` // only when KeepPaths

	Runs    int    `json:"runs"`
	Seed    uint64 `json:"seed"`
	Elapsed string `json:"elapsed"`
}

// Aggregator runs many independent path simulations and reduces the results.
//
// Paths are embarrassingly parallel: each worker owns its own PCG generator,
// seeded by splitting the master seed with the worker index, and paths are
// assigned to workers by a fixed stride so a (seed, workers) pair is
// byte-reproducible regardless of goroutine scheduling. The reduction is
// order-insensitive (sums and means only).
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new simulation aggregator.
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("service", "aggregator").Logger(),
	}
}

// Run executes cfg.Runs independent path simulations and reduces them.
// Any path failure aborts the whole batch; partial batches would bias the
// means, so they are never reported as valid results.
func (a *Aggregator) Run(cfg BatchConfig) (*BatchResult, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("simulation count must be > 0, got %d", cfg.Runs)
	}

	sim, err := NewPathSimulator(cfg.Params, a.log)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Runs {
		workers = cfg.Runs
	}

	start := time.Now()
	a.log.Info().
		Int("runs", cfg.Runs).
		Int("steps", sim.Steps()).
		Int("workers", workers).
		Uint64("seed", seed).
		Msg("Starting simulation batch")

	results := make([]*PathResult, cfg.Runs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			shocks := distuv.Normal{
				Mu:    0,
				Sigma: 1,
				Src:   rand.NewPCG(seed, uint64(worker)+1),
			}

			for i := worker; i < cfg.Runs; i += workers {
				res, err := sim.Run(shocks)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				results[i] = res
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	batch := a.reduce(cfg, sim, results, seed)
	batch.Elapsed = time.Since(start).String()

	a.log.Info().
		Str("elapsed", batch.Elapsed).
		Float64("empirical_call", batch.EmpiricalPrice.Call).
		Float64("empirical_put", batch.EmpiricalPrice.Put).
		Msg("Simulation batch complete")

	return batch, nil
}

func (a *Aggregator) reduce(cfg BatchConfig, sim *PathSimulator, results []*PathResult, seed uint64) *BatchResult {
	n := len(results)

	payoffC := make([]float64, n)
	payoffP := make([]float64, n)
	cfC := make([]float64, n)
	cfP := make([]float64, n)
	pnlC := make([]float64, n)
	pnlP := make([]float64, n)
	cashC := make([]float64, n)
	cashP := make([]float64, n)
	vols := make([]float64, 0, n)

	batch := &BatchResult{
		Quote:       sim.Quote(),
		FinalPrices: make([]float64, n),
		FinalShares: make([]formulas.DeltaPair, n),
		Stats:       make([]PathStat, n),
		Runs:        n,
		Seed:        seed,
	}
	if cfg.KeepPaths {
		batch.Paths = make([][]float64, n)
	}

	strike := cfg.Params.Strike
	for i, res := range results {
		final := res.Prices[len(res.Prices)-1]
		payoffC[i] = math.Max(final-strike, 0)
		payoffP[i] = math.Max(strike-final, 0)
		cfC[i] = res.CashFlowTotal.Call
		cfP[i] = res.CashFlowTotal.Put
		pnlC[i] = res.PnL.Call
		pnlP[i] = res.PnL.Put
		cashC[i] = res.Cash.Call
		cashP[i] = res.Cash.Put
		if res.RealizedVol != nil {
			vols = append(vols, *res.RealizedVol)
		}

		batch.FinalPrices[i] = final
		batch.FinalShares[i] = res.FinalDeltas
		batch.Stats[i] = res.Stat
		if cfg.KeepPaths {
			batch.Paths[i] = res.Prices
		}
	}

	batch.ValueCall = formulas.Mean(payoffC)
	batch.ValuePut = formulas.Mean(payoffP)
	batch.CashFlow = Legs{Call: formulas.Mean(cfC), Put: formulas.Mean(cfP)}
	batch.PnL = Legs{Call: formulas.Mean(pnlC), Put: formulas.Mean(pnlP)}
	batch.Cash = Legs{Call: formulas.Mean(cashC), Put: formulas.Mean(cashP)}
	batch.AvgRealizedVol = formulas.Mean(vols)

	// Unwind cost is the negated payoff: closing the short option at
	// maturity costs its intrinsic value.
	batch.EmpiricalPrice = Legs{
		Call: batch.PnL.Call + batch.CashFlow.Call - batch.ValueCall,
		Put:  batch.PnL.Put + batch.CashFlow.Put - batch.ValuePut,
	}

	return batch
}

// DiscountedPayoff discounts a mean terminal payoff back to inception with
// discrete compounding, matching the driver's comparison convention.
func DiscountedPayoff(value, riskFree, maturity float64) float64 {
	return value / math.Pow(1+riskFree, maturity)
}
