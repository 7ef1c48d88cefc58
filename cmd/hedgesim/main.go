package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aristath/option-hedger/internal/modules/results"
	"github.com/aristath/option-hedger/internal/modules/simulation"
	"github.com/aristath/option-hedger/pkg/logger"
)

func main() {
	simCnt := flag.Int("sim_cnt", 0, "Number of rounds to simulate (required)")
	r := flag.Float64("r", 0, "Stock drift rate (required)")
	rf := flag.Float64("rf", 0, "Risk free rate (required)")
	mat := flag.Int("mat", 0, "Maturity, T in years (required)")
	spotPrice := flag.Float64("spot_price", 0, "Spot price, St (required)")
	strikePrice := flag.Float64("strike_price", 0, "Strike price, K (required)")
	sigma := flag.Float64("sigma", 0, "Volatility sigma (required)")
	tpd := flag.Float64("tpd", 1, "Trading periods scaling factor; steps/year = 260 * tpd")
	q := flag.Float64("q", 0, "Dividend yield")
	seed := flag.Uint64("seed", 0, "Random seed (0 = derive from clock)")
	workers := flag.Int("workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	out := flag.String("out", "data_1.csv", "Results file path")
	logLevel := flag.String("log_level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel, Pretty: true})

	required := []string{"sim_cnt", "r", "rf", "mat", "spot_price", "strike_price", "sigma"}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range required {
		if !set[name] {
			fmt.Fprintf(os.Stderr, "missing required flag: --%s\n", name)
			flag.Usage()
			os.Exit(2)
		}
	}

	params := simulation.Params{
		Drift:         *r,
		RiskFree:      *rf,
		Sigma:         *sigma,
		DividendYield: *q,
		Spot:          *spotPrice,
		Strike:        *strikePrice,
		Maturity:      float64(*mat),
		StepsPerYear:  int(260 * *tpd),
	}

	batch, err := simulation.NewAggregator(log).Run(simulation.BatchConfig{
		Params:  params,
		Runs:    *simCnt,
		Seed:    *seed,
		Workers: *workers,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := results.NewWriter(log).WriteFile(*out, batch.Stats); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pvCall := simulation.DiscountedPayoff(batch.ValueCall, *rf, params.Maturity)
	pvPut := simulation.DiscountedPayoff(batch.ValuePut, *rf, params.Maturity)

	fmt.Printf("op:   %v ; %v\n", batch.EmpiricalPrice.Call, batch.EmpiricalPrice.Put)
	fmt.Printf("cf:   %v ; %v\n", batch.CashFlow.Call, batch.CashFlow.Put)
	fmt.Printf("cash: %v ; %v\n", batch.Cash.Call, batch.Cash.Put)
	fmt.Printf("pnl:  %v ; %v\n", batch.PnL.Call, batch.PnL.Put)
	fmt.Println()
	fmt.Println("                     call                 put")
	fmt.Printf("    black-scholes:  %v ; %v\n", batch.Quote.Call, batch.Quote.Put)
	fmt.Printf("  expected payoff:  %v ; %v\n", pvCall, pvPut)
	fmt.Printf("delta hedging pnl:  %v ; %v\n", batch.PnL.Call, batch.PnL.Put)
	fmt.Printf("       difference:  %v ; %v\n", batch.Quote.Call-pvCall, batch.Quote.Put-pvPut)
}
