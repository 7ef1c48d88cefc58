package formulas

import "math"

// DeltaPair holds the call-side and put-side delta at one snapshot.
type DeltaPair struct {
	Call float64
	Put  float64
}

// SideGreeks holds the full sensitivity set for one side of the pair.
// Gamma and vega are shared between call and put; theta is signed per side.
type SideGreeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
}

// GreekSet is the full call/put sensitivity snapshot.
type GreekSet struct {
	Call SideGreeks `json:"call"`
	Put  SideGreeks `json:"put"`
}

// Deltas calculates only the call/put delta pair. This is the cheap path
// used at every rebalancing step of a simulation, where the remaining
// greeks are not needed.
//
// Precondition: t > 0. At exactly zero remaining time d1 is undefined and
// the discontinuous limiting delta applies instead (see TerminalDeltas).
func Deltas(t, d1, q float64) DeltaPair {
	deltaC := NormCDF(d1) * math.Exp(-q*t)
	return DeltaPair{
		Call: deltaC,
		Put:  (deltaC - 1) * math.Exp(-q*t),
	}
}

// TerminalDeltas calculates the limiting delta pair at zero remaining time,
// where the d1 formula degenerates (division by zero). The call delta jumps
// to 1 in the money and 0 out of the money, dividend-scaled; the put delta
// follows from the same relation Deltas uses.
func TerminalDeltas(t, s, k, q float64) DeltaPair {
	deltaC := 0.0
	if s > k {
		deltaC = math.Exp(-q * t)
	}
	return DeltaPair{
		Call: deltaC,
		Put:  (deltaC - 1) * math.Exp(-q*t),
	}
}

// Vega calculates the (call/put shared) vega.
//
// Precondition: t > 0.
func Vega(t, d1, s, q float64) float64 {
	return s * NormPDF(d1) * math.Sqrt(t) * math.Exp(-q*t)
}

// Greeks calculates the full sensitivity set for call and put.
//
// Args:
//   - t: time to maturity in years (must be > 0)
//   - k: strike price
//   - r: rate used in the theta discounting terms
//   - sigma: volatility matching the scale of d1/d2
//   - d1, d2: as in the Black-Scholes equation
//   - s: stock price
//   - q: dividend yield
//
// Note: the put delta here uses deltaC - exp(-q*t), which differs from the
// delta-only path by one dividend-discount factor. Both forms are kept as-is
// per mode; with q=0 they coincide.
func Greeks(t, k, r, sigma, d1, d2, s, q float64) GreekSet {
	cdfD1 := NormCDF(d1)
	cdfD2 := NormCDF(d2)
	negCdfD2 := NormCDF(-d2)
	pdfD1 := NormPDF(d1)
	divDisc := math.Exp(-q * t)

	deltaC := cdfD1 * divDisc
	deltaP := deltaC - divDisc

	gamma := pdfD1 / (s * sigma * math.Sqrt(t)) * divDisc
	vega := s * pdfD1 * math.Sqrt(t) * divDisc

	thetaC := -(s*pdfD1*sigma*divDisc)/(2*math.Sqrt(t)) -
		r*k*math.Exp(-r*t)*cdfD2 +
		q*s*divDisc*cdfD1
	thetaP := -(s*pdfD1*sigma*divDisc)/(2*math.Sqrt(t)) +
		r*k*math.Exp(-r*t)*negCdfD2 -
		q*s*divDisc*(1-cdfD1)

	return GreekSet{
		Call: SideGreeks{Delta: deltaC, Gamma: gamma, Vega: vega, Theta: thetaC},
		Put:  SideGreeks{Delta: deltaP, Gamma: gamma, Vega: vega, Theta: thetaP},
	}
}
