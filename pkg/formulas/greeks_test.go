package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltas(t *testing.T) {
	quote, err := BlackScholes(1, 100, 100, 0.05, 0.2, 0)
	require.NoError(t, err)

	pair := Deltas(1, quote.D1, 0)

	// Without dividends the delta-only and full relations coincide:
	// deltaC = N(d1), deltaP = deltaC - 1.
	assert.InDelta(t, NormCDF(quote.D1), pair.Call, 1e-12)
	assert.InDelta(t, pair.Call-1, pair.Put, 1e-12)
	assert.Greater(t, pair.Call, 0.5, "ATM call delta with positive drift term")
	assert.Less(t, pair.Call, 0.7)
}

func TestDeltasDividendScaling(t *testing.T) {
	q := 0.03
	pair := Deltas(2, 0.4, q)

	disc := math.Exp(-q * 2)
	assert.InDelta(t, NormCDF(0.4)*disc, pair.Call, 1e-12)
	assert.InDelta(t, (pair.Call-1)*disc, pair.Put, 1e-12)

	// Bounds: call in [0, e^(-qT)], put in [-e^(-qT), 0]
	assert.GreaterOrEqual(t, pair.Call, 0.0)
	assert.LessOrEqual(t, pair.Call, disc)
	assert.GreaterOrEqual(t, pair.Put, -disc)
	assert.LessOrEqual(t, pair.Put, 0.0)
}

func TestTerminalDeltas(t *testing.T) {
	tests := []struct {
		name     string
		s, k     float64
		wantCall float64
	}{
		{name: "in the money", s: 120, k: 100, wantCall: 1},
		{name: "out of the money", s: 80, k: 100, wantCall: 0},
		{name: "exactly at strike", s: 100, k: 100, wantCall: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := TerminalDeltas(0, tt.s, tt.k, 0)
			assert.Equal(t, tt.wantCall, pair.Call)
			assert.Equal(t, pair.Call-1, pair.Put)
		})
	}
}

func TestVega(t *testing.T) {
	quote, err := BlackScholes(1, 100, 100, 0.05, 0.2, 0)
	require.NoError(t, err)

	vega := Vega(1, quote.D1, 100, 0)
	assert.InDelta(t, 100*NormPDF(quote.D1), vega, 1e-12)
	assert.Greater(t, vega, 0.0)
}

func TestGreeksFull(t *testing.T) {
	quote, err := BlackScholes(1, 100, 100, 0.05, 0.2, 0)
	require.NoError(t, err)

	set := Greeks(1, 100, 0.05, 0.2, quote.D1, quote.D2, 100, 0)

	// Gamma and vega are shared between the sides
	assert.Equal(t, set.Call.Gamma, set.Put.Gamma)
	assert.Equal(t, set.Call.Vega, set.Put.Vega)
	assert.Greater(t, set.Call.Gamma, 0.0)
	assert.Greater(t, set.Call.Vega, 0.0)

	// With q=0 the full-mode put delta matches the delta-only relation
	pair := Deltas(1, quote.D1, 0)
	assert.InDelta(t, pair.Call, set.Call.Delta, 1e-12)
	assert.InDelta(t, pair.Put, set.Put.Delta, 1e-12)

	// Time decay hurts a long ATM option
	assert.Less(t, set.Call.Theta, 0.0)
	assert.Less(t, set.Put.Theta, 0.0)
}
