package commands

import (
	"errors"
	"fmt"

	"convert-capacity/internal/ramp"

	"github.com/spf13/cobra"
)

var rampCmd = &cobra.Command{
	Use:   "ramp",
	Short: "Evaluate the ramp model at one price",
	Long: `Prints increase/decrease rates and seasons-to-boundary at --price for
--delta, or for every configured delta when --delta is omitted. --trace walks
the exact recurrence for one regime (reached|depleting) instead.

Example:
  capacity ramp --price 0.8
  capacity ramp --price 0.8 --delta 0.01 --trace depleting`,
	RunE: runRamp,
}

var (
	rampPrice float64
	rampDelta float64
	rampTrace string
)

func init() {
	rootCmd.AddCommand(rampCmd)

	rampCmd.Flags().Float64Var(&rampPrice, "price", 0, "price (required)")
	rampCmd.Flags().Float64Var(&rampDelta, "delta", 0, "delta as a fraction, 0.01 = 1% (default: configured ladder)")
	rampCmd.Flags().StringVar(&rampTrace, "trace", "", "walk the recurrence for a regime: reached|depleting")
	_ = rampCmd.MarkFlagRequired("price")
}

func runRamp(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ladder := []ramp.Delta{ramp.Delta(rampDelta)}
	if !cmd.Flags().Changed("delta") {
		params, err := cfg.Params()
		if err != nil {
			return err
		}
		ladder = params.Deltas
	}

	if rampTrace != "" {
		if len(ladder) != 1 {
			return errors.New("--trace needs a single --delta")
		}
		closed, err := ramp.Compute(rampPrice, ladder[0])
		if err != nil {
			return err
		}
		tr, err := ramp.TraceToBoundary(rampPrice, ladder[0], ramp.Regime(rampTrace), 0)
		if err != nil {
			return err
		}
		closed = closed.Rounded()
		fmt.Fprintf(out, "closed-form: to max=%.3f to min=%.3f\n", closed.SeasonsToMax, closed.SeasonsToMin)
		fmt.Fprintf(out, "regime=%s seasons=%d reached=%t\n", tr.Regime, tr.Seasons, tr.Reached)
		for i, d := range tr.Path {
			fmt.Fprintf(out, "%-6d %.6f\n", i+1, d)
		}
		return nil
	}

	fmt.Fprintf(out, "%-8s %-12s %-12s %-12s %-12s\n", "delta", "increase", "decrease", "to max", "to min")
	for _, d := range ladder {
		r, err := ramp.Compute(rampPrice, d)
		if err != nil {
			return err
		}
		r = r.Rounded()
		fmt.Fprintf(out, "%-8s %-12.3f %-12.3f %-12.3f %-12.3f\n", d, r.IncreaseRate, r.DecreaseRate, r.SeasonsToMax, r.SeasonsToMin)
	}
	return nil
}
