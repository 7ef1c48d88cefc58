package simulation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/option-hedger/pkg/formulas"
)

// ShockSource supplies independent standard-normal draws for one path.
// Satisfied by gonum's distuv.Normal.
type ShockSource interface {
	Rand() float64
}

// Legs holds a call-side and put-side amount of the same quantity
// (cash flow, P&L, net result).
type Legs struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`
}

// PathStat is the per-path summary row written to the results file,
// rounded to 2 decimals: terminal price, net hedge result per side, and the
// closed-form reference prices at inception.
type PathStat struct {
	FinalPrice float64 `csv:"s_t" json:"s_t"`
	NetCall    float64 `csv:"net_c" json:"net_c"`
	NetPut     float64 `csv:"net_p" json:"net_p"`
	BSCall     float64 `csv:"bs_c" json:"bs_c"`
	BSPut      float64 `csv:"bs_p" json:"bs_p"`
}

// PathResult is the outcome of hedging one simulated price path.
type PathResult struct {
	Prices        []float64            // full path, index 0 = spot
	Deltas        []formulas.DeltaPair // per-step hedge ratios
	CashFlowTotal Legs                 // sum of per-step cash flows (no financing)
	PnL           Legs                 // raw mark-to-market hedge P&L
	FinalDeltas   formulas.DeltaPair   // shares held at maturity
	Cash          Legs                 // financed cash, compounded at the risk-free rate
	Net           Legs                 // cash + final delta * final price - payoff
	RealizedVol   *float64             // annualized realized vol of the path
	Stat          PathStat
}

// PathSimulator simulates one realization of a delta-hedged option position
// across N discrete rebalancing steps.
//
// The price path follows a discretized GBM Euler step (not log-normal exact
// simulation): S[i] = S[i-1] * (1 + (r-q)/steps + sigmaStep*z). The aggregate
// statistics depend on this exact discretization, so it must not be replaced
// with a log-Euler scheme.
type PathSimulator struct {
	params    Params
	steps     int
	sigmaStep float64
	quote     formulas.BSQuote
	log       zerolog.Logger
}

// NewPathSimulator validates the market parameters, precomputes the per-step
// volatility and the closed-form reference quote, and returns a simulator
// ready to run any number of independent paths.
func NewPathSimulator(params Params, log zerolog.Logger) (*PathSimulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	quote, err := formulas.BlackScholes(
		params.Maturity, params.Strike, params.Spot,
		params.RiskFree, params.Sigma, params.DividendYield,
	)
	if err != nil {
		return nil, err
	}

	return &PathSimulator{
		params:    params,
		steps:     params.Steps(),
		sigmaStep: params.Sigma / math.Sqrt(float64(params.StepsPerYear)),
		quote:     quote,
		log:       log.With().Str("component", "path_simulator").Logger(),
	}, nil
}

// Quote returns the closed-form reference quote at inception.
func (s *PathSimulator) Quote() formulas.BSQuote {
	return s.quote
}

// Steps returns the number of path points per simulation.
func (s *PathSimulator) Steps() int {
	return s.steps
}

// Run simulates one path using shocks drawn from src and returns the
// realized hedging outcome.
func (s *PathSimulator) Run(src ShockSource) (*PathResult, error) {
	p := s.params
	n := s.steps
	days := float64(p.StepsPerYear)

	shocks := make([]float64, n)
	for i := range shocks {
		shocks[i] = src.Rand()
	}

	prices := make([]float64, n)
	deltas := make([]formulas.DeltaPair, n)

	prices[0] = p.Spot
	deltas[0] = s.stepDeltas(p.Spot, p.Maturity)

	for i := 1; i < n; i++ {
		prev := prices[i-1]
		prices[i] = prev + prev*(p.Drift-p.DividendYield)/days + prev*s.sigmaStep*shocks[i-1]
		if prices[i] <= 0 {
			return nil, fmt.Errorf("simulated price became non-positive at step %d (%v)", i, prices[i])
		}

		term := p.Maturity - float64(i)/days
		deltas[i] = s.stepDeltas(prices[i], term)
	}

	// Step 0 establishes the hedge: the option premium finances the initial
	// delta position. Every later step pays for rebalancing to the new delta
	// at the current price, and the running cash balance compounds one period
	// at the risk-free rate.
	growth := math.Exp(p.RiskFree / days)
	cfC := s.quote.Call - deltas[0].Call*p.Spot
	cfP := s.quote.Put - deltas[0].Put*p.Spot
	cfSum := Legs{Call: cfC, Put: cfP}
	cash := Legs{Call: cfC, Put: cfP}
	var pnl Legs

	for i := 1; i < n; i++ {
		stepCFCall := -prices[i] * (deltas[i].Call - deltas[i-1].Call)
		stepCFPut := -prices[i] * (deltas[i].Put - deltas[i-1].Put)

		cfSum.Call += stepCFCall
		cfSum.Put += stepCFPut

		cash.Call = cash.Call*growth + stepCFCall
		cash.Put = cash.Put*growth + stepCFPut

		dS := prices[i] - prices[i-1]
		pnl.Call -= dS * deltas[i-1].Call
		pnl.Put -= dS * deltas[i-1].Put
	}

	final := prices[n-1]
	payoffCall := math.Max(final-p.Strike, 0)
	payoffPut := math.Max(p.Strike-final, 0)

	net := Legs{
		Call: cash.Call + deltas[n-1].Call*final - payoffCall,
		Put:  cash.Put + deltas[n-1].Put*final - payoffPut,
	}

	return &PathResult{
		Prices:        prices,
		Deltas:        deltas,
		CashFlowTotal: cfSum,
		PnL:           pnl,
		FinalDeltas:   deltas[n-1],
		Cash:          cash,
		Net:           net,
		RealizedVol:   formulas.RealizedVol(prices, p.StepsPerYear),
		Stat: PathStat{
			FinalPrice: round2(final),
			NetCall:    round2(net.Call),
			NetPut:     round2(net.Put),
			BSCall:     round2(s.quote.Call),
			BSPut:      round2(s.quote.Put),
		},
	}, nil
}

// stepDeltas recomputes d1/d2 and the delta pair at one path index, using
// the per-step rate and volatility scaled to the remaining term in years.
// At zero (or negative) remaining time the d1 formula divides by zero, so
// the discontinuous limiting delta is used instead.
func (s *PathSimulator) stepDeltas(price, term float64) formulas.DeltaPair {
	p := s.params
	if term <= 0 {
		return formulas.TerminalDeltas(math.Max(term, 0), price, p.Strike, p.DividendYield)
	}

	days := float64(p.StepsPerYear)
	d1 := 1 / (s.sigmaStep * math.Sqrt(term)) *
		(math.Log(price/p.Strike) + ((p.Drift-p.DividendYield)/days+s.sigmaStep*s.sigmaStep/2)*term)

	return formulas.Deltas(term, d1, p.DividendYield)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
