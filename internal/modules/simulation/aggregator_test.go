package simulation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorRejectsInvalidBatch(t *testing.T) {
	agg := NewAggregator(zerolog.Nop())

	_, err := agg.Run(BatchConfig{Params: testParams(), Runs: 0})
	require.Error(t, err, "non-positive simulation count")

	bad := testParams()
	bad.Sigma = -0.2
	_, err = agg.Run(BatchConfig{Params: bad, Runs: 10})
	require.Error(t, err, "parameter errors abort before any simulation work")
}

func TestAggregatorReproducibility(t *testing.T) {
	agg := NewAggregator(zerolog.Nop())
	cfg := BatchConfig{Params: testParams(), Runs: 50, Seed: 1234, Workers: 4}

	a, err := agg.Run(cfg)
	require.NoError(t, err)
	b, err := agg.Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Stats, b.Stats, "same seed and worker count must reproduce byte-identical per-path statistics")
	assert.Equal(t, a.EmpiricalPrice, b.EmpiricalPrice)
	assert.Equal(t, a.FinalPrices, b.FinalPrices)
}

func TestAggregatorShapes(t *testing.T) {
	agg := NewAggregator(zerolog.Nop())

	batch, err := agg.Run(BatchConfig{
		Params:    testParams(),
		Runs:      25,
		Seed:      99,
		Workers:   3,
		KeepPaths: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, batch.Runs)
	assert.Len(t, batch.Stats, 25)
	assert.Len(t, batch.FinalPrices, 25)
	assert.Len(t, batch.FinalShares, 25)
	require.Len(t, batch.Paths, 25)
	for _, path := range batch.Paths {
		assert.Len(t, path, 260)
	}

	// Empirical price is exactly the documented reduction of the exposed
	// aggregates: mean P&L + mean cash flow - mean payoff.
	assert.InDelta(t, batch.PnL.Call+batch.CashFlow.Call-batch.ValueCall,
		batch.EmpiricalPrice.Call, 1e-12)
	assert.InDelta(t, batch.PnL.Put+batch.CashFlow.Put-batch.ValuePut,
		batch.EmpiricalPrice.Put, 1e-12)
}

func TestAggregatorFinalDeltaBounds(t *testing.T) {
	agg := NewAggregator(zerolog.Nop())

	batch, err := agg.Run(BatchConfig{Params: testParams(), Runs: 200, Seed: 7, Workers: 2})
	require.NoError(t, err)

	for i, d := range batch.FinalShares {
		assert.GreaterOrEqual(t, d.Call, 0.0, "path %d", i)
		assert.LessOrEqual(t, d.Call, 1.0, "path %d", i)
		assert.GreaterOrEqual(t, d.Put, -1.0, "path %d", i)
		assert.LessOrEqual(t, d.Put, 0.0, "path %d", i)
	}
}

func TestAggregatorConvergesToClosedForm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Monte Carlo convergence test in short mode")
	}

	// With drift equal to the risk-free rate the discounted mean payoff is a
	// Monte Carlo estimate of the risk-neutral price. 4000 paths put the
	// standard error of the call estimate around 0.23, so a band of 1.0
	// stays comfortably clear of flakiness.
	agg := NewAggregator(zerolog.Nop())
	params := testParams()

	batch, err := agg.Run(BatchConfig{Params: params, Runs: 4000, Seed: 2024, Workers: 4})
	require.NoError(t, err)

	pvCall := DiscountedPayoff(batch.ValueCall, params.RiskFree, params.Maturity)
	pvPut := DiscountedPayoff(batch.ValuePut, params.RiskFree, params.Maturity)

	assert.InDelta(t, batch.Quote.Call, pvCall, 1.0)
	assert.InDelta(t, batch.Quote.Put, pvPut, 1.0)

	// The realized vol of the simulated paths should agree with sigma
	assert.InDelta(t, params.Sigma, batch.AvgRealizedVol, 0.01)
}

func TestDiscountedPayoff(t *testing.T) {
	assert.InDelta(t, 10, DiscountedPayoff(10.5, 0.05, 1), 1e-12)
	assert.InDelta(t, 10.5, DiscountedPayoff(10.5, 0, 3), 1e-12)
}
