package formulas

import (
	"fmt"
	"math"
)

// BSQuote holds the closed-form Black-Scholes valuation of a European
// call/put pair together with the d1/d2 risk-neutral parameters.
type BSQuote struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`
	D1   float64 `json:"d1"`
	D2   float64 `json:"d2"`
}

// BlackScholes calculates the closed-form price of a European call and put.
//
// Args:
//   - t: maturity in years
//   - k: strike price
//   - s: spot price
//   - rf: risk-free rate (continuous compounding)
//   - sigma: volatility over t
//   - q: continuous dividend yield
//
// Returns the call price, put price and the d1/d2 expressions. Fails on
// invalid market state (non-positive maturity, volatility, spot or strike);
// these are domain errors, never silently defaulted.
func BlackScholes(t, k, s, rf, sigma, q float64) (BSQuote, error) {
	if err := validateMarket(t, k, s, sigma); err != nil {
		return BSQuote{}, err
	}

	d1 := 1 / (sigma * math.Sqrt(t)) * (math.Log(s/k) + (rf-q+sigma*sigma/2)*t)
	d2 := d1 - sigma*math.Sqrt(t)

	pv := k * math.Exp(-rf*t)
	sTerm := s * math.Exp(-q*t)

	return BSQuote{
		Call: NormCDF(d1)*sTerm - NormCDF(d2)*pv,
		Put:  -NormCDF(-d1)*sTerm + NormCDF(-d2)*pv,
		D1:   d1,
		D2:   d2,
	}, nil
}

func validateMarket(t, k, s, sigma float64) error {
	switch {
	case t <= 0:
		return fmt.Errorf("maturity must be > 0, got %v", t)
	case sigma <= 0:
		return fmt.Errorf("volatility must be > 0, got %v", sigma)
	case s <= 0:
		return fmt.Errorf("spot price must be > 0, got %v", s)
	case k <= 0:
		return fmt.Errorf("strike price must be > 0, got %v", k)
	}
	return nil
}
