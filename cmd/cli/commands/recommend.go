package commands

import (
	"errors"
	"fmt"

	"convert-capacity/internal/analysis"
	"convert-capacity/internal/data"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest deltas from the historical price distribution",
	Long: `Summarizes the price distribution, prints ramp rates at its key levels
and suggests deltas for fast, moderate and slow ramps at the median price.
With --target, also ranks the configured ladder against that many seasons.

Example:
  capacity recommend --data data/seasons.csv --target 150`,
	RunE: runRecommend,
}

var (
	recommendData   string
	recommendTarget float64
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendData, "data", "data/seasons.csv", "season CSV or JSON snapshot")
	recommendCmd.Flags().Float64Var(&recommendTarget, "target", 0, "target seasons to max for ladder ranking")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	series, err := loadSeries(recommendData)
	if err != nil {
		return err
	}
	series, _ = data.DropUnpriced(series)
	stats := analysis.ComputePriceStats(analysis.Prices(series))
	if stats.Count == 0 {
		return errors.New("no priced seasons")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "prices: n=%d min=%.4f p25=%.4f median=%.4f p75=%.4f max=%.4f mean=%.4f\n",
		stats.Count, stats.Min, stats.P25, stats.Median, stats.P75, stats.Max, stats.Mean)

	levels, err := analysis.KeyLevelTable(stats, analysis.ReportDeltas())
	if err != nil {
		return err
	}
	for _, lvl := range levels {
		fmt.Fprintf(out, "\n%s (%.4f)\n", lvl.Label, lvl.Price)
		fmt.Fprintf(out, "  %-8s %-12s %-12s\n", "delta", "to max", "to min")
		for _, r := range lvl.Rates {
			fmt.Fprintf(out, "  %-8s %-12.3f %-12.3f\n", r.Delta, r.SeasonsToMax, r.SeasonsToMin)
		}
	}

	recs, err := analysis.Recommend(stats.Median, analysis.DefaultBands())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSuggested deltas at median price %.4f\n", stats.Median)
	for _, rec := range recs {
		fmt.Fprintf(out, "  %s:", rec.Band)
		for _, s := range rec.Suggestions {
			fmt.Fprintf(out, " %.0f seasons -> %.3f%%", s.TargetSeasons, s.Percent)
		}
		fmt.Fprintln(out)
	}

	if recommendTarget > 0 {
		params, err := cfg.Params()
		if err != nil {
			return err
		}
		ranked, err := analysis.RankDeltas(stats.Median, recommendTarget, params.Deltas)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nClosest configured deltas to %.0f seasons\n", recommendTarget)
		fmt.Fprintf(out, "%-4s %-8s %-12s %-10s\n", "rank", "delta", "to max", "distance")
		for i, r := range ranked {
			if i == 5 {
				break
			}
			fmt.Fprintf(out, "%-4d %-8s %-12.3f %-10.3f\n", i+1, r.Delta, r.SeasonsToMax, r.Distance)
		}
	}
	return nil
}
