package main

import (
	"flag"
	"fmt"

	"convert-capacity/internal/config"
	"convert-capacity/internal/data"
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"
)

// Demo:
// - Load a season CSV (or use a small built-in series)
// - Run the capacity pipeline with one divisor and one delta
// - Print a few seasons to show how the pieces fit together
func main() {
	dataPath := flag.String("data", "", "Path to season CSV (built-in series when empty)")
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	n := flag.Int("n", 12, "Number of seasons to print")
	outCSV := flag.String("out", "", "Optional path to write the full CSV (e.g. results/demo.csv)")
	flag.Parse()

	series := builtinSeries()
	if *dataPath != "" {
		s, err := data.ReadSeasonCSV(*dataPath)
		if err != nil {
			panic(err)
		}
		series = s
	}
	if len(series) == 0 {
		panic("no seasons")
	}

	params := pipeline.Params{Divisors: []int{100}, Deltas: []ramp.Delta{0.01}}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		p, err := cfg.Params()
		if err != nil {
			panic(err)
		}
		params = p
	}
	s, d := params.Divisors[0], params.Deltas[0]

	result, err := pipeline.New(nil).Run(series, params)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Loaded %d seasons (%d..%d)\n", len(series), series[0].Season, series[len(series)-1].Season)
	fmt.Printf("Divisor=%d Delta=%s\n\n", s, d)

	for i := 0; i < min(*n, len(result.Rows)); i++ {
		r := result.Rows[i]
		marker := " "
		if r.IsNewMax {
			marker = "*"
		}
		rates := r.Ramp[d].Rounded()
		fmt.Printf(
			"season=%6d deltaB=%10.2f price=%.4f  extreme=%10.2f%s  %s=%8.3f  toMax=%8.3f  toMin=%7.3f\n",
			r.Season,
			r.TwaDeltaB,
			r.TwaPrice,
			r.MaxNegativeTwaDeltaB,
			marker,
			model.CapacityColumn(s),
			model.Round3(r.Capacity[s]),
			rates.SeasonsToMax,
			rates.SeasonsToMin,
		)
	}

	if *outCSV != "" {
		t, err := pipeline.ToTable(result.Rows, params, false)
		if err != nil {
			panic(err)
		}
		if err := dataset.WriteCSVFile(*outCSV, t); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Final extreme=%.2f  New records=%d\n", result.FinalExtreme, result.NewRecords)
}

// builtinSeries is a short deficit episode: two surplus seasons, a
// deepening deficit and a partial recovery.
func builtinSeries() []model.SeasonRecord {
	deltas := []float64{150, 80, -120, -340, -610, -590, -420, -700, -380, -150, 40, 210}
	prices := []float64{1.03, 1.01, 0.98, 0.94, 0.91, 0.90, 0.93, 0.88, 0.92, 0.96, 1.00, 1.02}
	out := make([]model.SeasonRecord, len(deltas))
	for i := range deltas {
		out[i] = model.SeasonRecord{
			Season:    1000 + i,
			TwaDeltaB: deltas[i],
			TwaPrice:  prices[i],
			L2SR:      0.45,
			PodRate:   10,
		}
	}
	return out
}
