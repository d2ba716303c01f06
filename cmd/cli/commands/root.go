package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"convert-capacity/internal/config"
	"convert-capacity/internal/data"
	"convert-capacity/internal/logger"
	"convert-capacity/internal/model"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
	logFormat  string

	// Set by PersistentPreRunE for every subcommand.
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Convert capacity and ramp-rate analysis",
	Long: `Derives convert capacity from the running deficit extreme and
evaluates the rationing ramp model over a season series.

Examples:
  capacity fetch --out data/seasons.csv
  capacity analyze --data data/seasons.csv --out results/capacity.csv
  capacity extend --data data/seasons.csv --min-price 0.25
  capacity ramp --price 0.8 --delta 0.01
  capacity recommend --data data/seasons.csv --target 150`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnvFile()
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		if logFormat != "" {
			c.Log.Format = logFormat
		}
		cfg = c
		log = logger.New(logger.Config{Level: c.Log.Level, Format: c.Log.Format, Output: cmd.ErrOrStderr()})
		return nil
	},
}

// Execute runs the root command. Interrupts cancel in-flight fetches.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json|console)")
}

// loadSeries reads a season series from a CSV export or a JSON snapshot.
func loadSeries(path string) ([]model.SeasonRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		snap, err := data.LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		return data.Records(snap.Seasons), nil
	}
	return data.ReadSeasonCSV(path)
}
