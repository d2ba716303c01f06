package commands

import (
	"fmt"
	"io"

	"convert-capacity/internal/analysis"
	"convert-capacity/internal/data"
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive capacity and ramp rates for every season",
	Long: `Tracks the running deficit extreme, derives capacity for every
divisor and evaluates the ramp model at every delta, then writes one CSV row
per season.

Example:
  capacity analyze --data data/seasons.csv --out results/capacity.csv
  capacity analyze --data data/seasons.json --drop-unpriced`,
	RunE: runAnalyze,
}

var (
	analyzeData         string
	analyzeOut          string
	analyzeDropUnpriced bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeData, "data", "data/seasons.csv", "season CSV or JSON snapshot")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "results/capacity.csv", "output CSV path")
	analyzeCmd.Flags().BoolVar(&analyzeDropUnpriced, "drop-unpriced", false, "skip seasons with price <= 0 instead of failing")
}

// runSeries loads the series and runs the pipeline with the configured ladders.
func runSeries(path string, dropUnpriced bool) ([]model.SeasonRecord, *pipeline.Result, pipeline.Params, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, params, err
	}
	series, err := loadSeries(path)
	if err != nil {
		return nil, nil, params, err
	}
	if dropUnpriced {
		var dropped []int
		series, dropped = data.DropUnpriced(series)
		if len(dropped) > 0 {
			log.WithField("seasons", dropped).Warnf("dropped %d unpriced seasons", len(dropped))
		}
	}
	res, err := pipeline.New(log).Run(series, params)
	if err != nil {
		return nil, nil, params, err
	}
	return series, res, params, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, res, params, err := runSeries(analyzeData, analyzeDropUnpriced)
	if err != nil {
		return err
	}
	table, err := pipeline.ToTable(res.Rows, params, false)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSVFile(analyzeOut, table); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d rows (%d columns) to %s\n", table.Len(), table.Schema().Len(), analyzeOut)
	printSummary(out, res, params)
	return nil
}

func printSummary(out io.Writer, res *pipeline.Result, params pipeline.Params) {
	fmt.Fprintf(out, "Final extreme=%.3f new records=%d\n", res.FinalExtreme, res.NewRecords)
	if len(res.Rows) == 0 {
		return
	}
	last := res.Rows[len(res.Rows)-1]
	fmt.Fprintf(out, "%-24s %-12s\n", "column", "capacity")
	for _, s := range params.Divisors {
		fmt.Fprintf(out, "%-24s %-12.3f\n", model.CapacityColumn(s), model.Round3(last.Capacity[s]))
	}

	records := analysis.NewRecords(res.Rows)
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%-8s %-12s %-10s %-12s\n", "season", "twaDeltaB", "twaPrice", "extreme")
	for _, r := range records {
		fmt.Fprintf(out, "%-8d %-12.3f %-10.4f %-12.3f\n", r.Season, r.TwaDeltaB, r.TwaPrice, r.NewExtreme)
	}
}
