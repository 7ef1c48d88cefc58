package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// StepReturns converts a simulated price path to per-step simple returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func StepReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility calculates annualized volatility from per-step returns
// given the number of rebalancing steps per year
func AnnualizedVolatility(stepReturns []float64, stepsPerYear int) float64 {
	if len(stepReturns) == 0 || stepsPerYear <= 0 {
		return 0
	}
	return StdDev(stepReturns) * math.Sqrt(float64(stepsPerYear))
}
