package commands

import (
	"fmt"

	"convert-capacity/internal/analysis"
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/synthetic"

	"github.com/spf13/cobra"
)

var extendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend the analysis below the historical price range",
	Long: `Runs the analysis, generates a synthetic price grid from --min-price up
to the lowest historical price and writes the merged dataset, ordered by
price, with a data_source column.

Example:
  capacity extend --data data/seasons.csv --min-price 0.25 --step 0.01`,
	RunE: runExtend,
}

var (
	extendData         string
	extendOut          string
	extendMinPrice     float64
	extendStep         float64
	extendDropUnpriced bool
)

func init() {
	rootCmd.AddCommand(extendCmd)

	extendCmd.Flags().StringVar(&extendData, "data", "data/seasons.csv", "season CSV or JSON snapshot")
	extendCmd.Flags().StringVar(&extendOut, "out", "results/capacity_extended.csv", "output CSV path")
	extendCmd.Flags().Float64Var(&extendMinPrice, "min-price", 0, "lowest synthetic price (default from config)")
	extendCmd.Flags().Float64Var(&extendStep, "step", 0, "synthetic grid step (default from config)")
	extendCmd.Flags().BoolVar(&extendDropUnpriced, "drop-unpriced", false, "skip seasons with price <= 0 instead of failing")
}

func runExtend(cmd *cobra.Command, args []string) error {
	opt := cfg.SyntheticOptions()
	if cmd.Flags().Changed("min-price") {
		opt.MinPrice = extendMinPrice
	}
	if cmd.Flags().Changed("step") {
		opt.Step = extendStep
	}
	if err := opt.Validate(); err != nil {
		return err
	}

	_, res, params, err := runSeries(extendData, extendDropUnpriced)
	if err != nil {
		return err
	}
	ext, err := synthetic.Extend(res.Rows, params, opt)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSVFile(extendOut, ext.Table); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m := ext.Meta
	fmt.Fprintf(out, "Wrote %d rows to %s\n", m.TotalCount, extendOut)
	fmt.Fprintf(out, "historical=%d synthetic=%d\n", m.HistoricalCount, m.SyntheticCount)
	if m.HistoricalRange != nil {
		fmt.Fprintf(out, "historical prices %.4f..%.4f\n", m.HistoricalRange.Min, m.HistoricalRange.Max)
	}
	if m.Extension != nil {
		fmt.Fprintf(out, "extension %.4f..%.4f\n", m.Extension.Min, m.Extension.Max)
	} else {
		fmt.Fprintln(out, "no extension: history already covers the minimum price")
	}

	fmt.Fprintf(out, "\n%-11s %-6s %-8s %-8s %-8s %-10s\n", "source", "count", "min", "median", "max", "mean step")
	for _, c := range analysis.Coverage(ext.Table) {
		fmt.Fprintf(out, "%-11s %-6d %-8.4f %-8.4f %-8.4f %-10.4f\n",
			c.Source, c.Stats.Count, c.Stats.Min, c.Stats.Median, c.Stats.Max, c.MeanStep)
	}
	return nil
}
