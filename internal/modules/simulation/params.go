package simulation

import "fmt"

// Params holds the immutable market parameters for one simulation batch.
type Params struct {
	Drift         float64 `json:"drift"`          // real-world drift of the underlying
	RiskFree      float64 `json:"risk_free"`      // financing and discounting rate
	Sigma         float64 `json:"sigma"`          // annualized volatility
	DividendYield float64 `json:"dividend_yield"` // continuous dividend yield
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	Maturity      float64 `json:"maturity"`       // years
	StepsPerYear  int     `json:"steps_per_year"` // discrete rebalancing steps per year
}

// Validate checks the market-state invariants. Invalid parameters are domain
// errors: the batch must abort before any simulation work, never substitute
// defaults.
func (p Params) Validate() error {
	switch {
	case p.Maturity <= 0:
		return fmt.Errorf("maturity must be > 0, got %v", p.Maturity)
	case p.Sigma <= 0:
		return fmt.Errorf("volatility must be > 0, got %v", p.Sigma)
	case p.Spot <= 0:
		return fmt.Errorf("spot price must be > 0, got %v", p.Spot)
	case p.Strike <= 0:
		return fmt.Errorf("strike price must be > 0, got %v", p.Strike)
	case p.StepsPerYear <= 0:
		return fmt.Errorf("steps per year must be > 0, got %d", p.StepsPerYear)
	}
	if p.Steps() <= 0 {
		return fmt.Errorf("degenerate step count: maturity %v at %d steps/year truncates to 0 steps",
			p.Maturity, p.StepsPerYear)
	}
	return nil
}

// Steps returns the number of discrete path points N = maturity * steps/year,
// truncated toward zero.
func (p Params) Steps() int {
	return int(p.Maturity * float64(p.StepsPerYear))
}
