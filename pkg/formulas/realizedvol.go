package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RollingRealizedVol calculates a rolling annualized realized volatility
// series over a simulated price path.
//
// Each point is the standard deviation of per-step returns over the trailing
// window, scaled by sqrt(stepsPerYear). Used as a diagnostic: for a GBM path
// the series should hover around the configured sigma.
//
// Args:
//   - prices: simulated price path
//   - window: trailing window length in steps (typically 20)
//   - stepsPerYear: rebalancing steps per year
//
// Returns the rolling series, or nil if the path is shorter than the window.
func RollingRealizedVol(prices []float64, window, stepsPerYear int) []float64 {
	returns := StepReturns(prices)
	if len(returns) < window || window < 2 || stepsPerYear <= 0 {
		return nil
	}

	// talib.StdDev returns a full-length slice; the first window-1 entries
	// are warm-up padding and carry no information
	rolling := talib.StdDev(returns, window, 1.0)

	scale := math.Sqrt(float64(stepsPerYear))
	out := make([]float64, 0, len(rolling)-window+1)
	for i := window - 1; i < len(rolling); i++ {
		if isNaN(rolling[i]) {
			continue
		}
		out = append(out, rolling[i]*scale)
	}
	return out
}

// RealizedVol calculates the whole-path annualized realized volatility,
// or nil if the path has fewer than two points.
func RealizedVol(prices []float64, stepsPerYear int) *float64 {
	returns := StepReturns(prices)
	if len(returns) == 0 {
		return nil
	}
	vol := AnnualizedVolatility(returns, stepsPerYear)
	return &vol
}

// SmoothedPath calculates an exponential moving average of a price path,
// used by the run-inspection endpoints to overlay a denoised curve.
func SmoothedPath(prices []float64, period int) []float64 {
	if len(prices) < period || period < 1 {
		return nil
	}
	return talib.Ema(prices, period)
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
