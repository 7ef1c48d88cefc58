package formulas

import "math"

// NormPDF calculates the standard normal probability density at x
//
// Formula: phi(x) = 1/sqrt(2*pi) * exp(-x^2/2)
func NormPDF(x float64) float64 {
	return 1 / math.Sqrt(2*math.Pi) * math.Exp(-x*x/2)
}

// NormCDF calculates the standard normal cumulative distribution at x
//
// Uses the erf-based identity N(x) = (1 + erf(x/sqrt(2))) / 2, which is
// accurate to well below 1e-10 over the range that matters for pricing.
func NormCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
