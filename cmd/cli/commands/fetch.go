package commands

import (
	"fmt"

	"convert-capacity/internal/data"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the season series from the subgraphs",
	Long: `Pages seasons and pod rates out of the bean and field subgraphs,
joins them by season and writes the series as CSV.

Example:
  capacity fetch --out data/seasons.csv --snapshot data/seasons.json`,
	RunE: runFetch,
}

var (
	fetchOut       string
	fetchSnapshot  string
	fetchMinSeason int
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOut, "out", "data/seasons.csv", "output CSV path")
	fetchCmd.Flags().StringVar(&fetchSnapshot, "snapshot", "", "optional JSON snapshot path")
	fetchCmd.Flags().IntVar(&fetchMinSeason, "min-season", 0, "first season to keep (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	minSeason := cfg.Subgraph.MinSeason
	if fetchMinSeason > 0 {
		minSeason = fetchMinSeason
	}

	client := data.NewSubgraphClient(data.ClientOptions{
		BeanURL:           cfg.Subgraph.BeanURL,
		FieldURL:          cfg.Subgraph.FieldURL,
		FieldAddress:      cfg.Subgraph.FieldAddress,
		BatchSize:         cfg.Subgraph.BatchSize,
		Retries:           cfg.Subgraph.Retries,
		RequestsPerSecond: cfg.Subgraph.RequestsPerSecond,
		Timeout:           cfg.Subgraph.Timeout,
	}, log)

	seasons, err := client.FetchAll(cmd.Context(), minSeason)
	if err != nil {
		return err
	}
	if err := data.WriteSeasonCSVFile(fetchOut, seasons); err != nil {
		return err
	}
	if fetchSnapshot != "" {
		if err := data.SaveSnapshot(fetchSnapshot, data.NewSnapshot(client, minSeason, seasons)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d seasons to %s\n", len(seasons), fetchOut)
	if n := len(seasons); n > 0 {
		fmt.Fprintf(out, "Seasons %d..%d\n", seasons[0].Season, seasons[n-1].Season)
	}
	return nil
}
