package runs

// Run is one persisted simulation batch: the market parameters it was run
// with and the reduced aggregate statistics.
type Run struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`

	// Parameters
	Drift         float64 `json:"drift"`
	RiskFree      float64 `json:"risk_free"`
	Sigma         float64 `json:"sigma"`
	DividendYield float64 `json:"dividend_yield"`
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	Maturity      float64 `json:"maturity"`
	StepsPerYear  int     `json:"steps_per_year"`
	Runs          int     `json:"runs"`
	Seed          uint64  `json:"seed"`

	// Closed-form reference
	BSCall float64 `json:"bs_call"`
	BSPut  float64 `json:"bs_put"`

	// Aggregates
	ValueCall      float64 `json:"value_call"`
	ValuePut       float64 `json:"value_put"`
	CashFlowCall   float64 `json:"cash_flow_call"`
	CashFlowPut    float64 `json:"cash_flow_put"`
	PnLCall        float64 `json:"pnl_call"`
	PnLPut         float64 `json:"pnl_put"`
	CashCall       float64 `json:"cash_call"`
	CashPut        float64 `json:"cash_put"`
	EmpiricalCall  float64 `json:"empirical_call"`
	EmpiricalPut   float64 `json:"empirical_put"`
	AvgRealizedVol float64 `json:"avg_realized_vol"`
}

// PathRow is one per-path statistics row read back from a run archive.
type PathRow struct {
	PathIdx    int     `json:"path_idx"`
	FinalPrice float64 `json:"s_t"`
	NetCall    float64 `json:"net_c"`
	NetPut     float64 `json:"net_p"`
	BSCall     float64 `json:"bs_c"`
	BSPut      float64 `json:"bs_p"`
}
