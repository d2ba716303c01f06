package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"convert-capacity/internal/config"
	"convert-capacity/internal/data"
	"convert-capacity/internal/logger"
)

// Refreshes a JSON season snapshot in place: the existing file is the seed,
// newly fetched seasons are added and changed ones replaced.
func main() {
	var (
		cfgPath    = flag.String("config", "", "Path to YAML config (optional)")
		outputPath = flag.String("output", "data/seasons.json", "Snapshot path to refresh")
		seedFile   = flag.String("seed", "", "Path to an existing snapshot to use as seed (default: --output)")
		csvPath    = flag.String("csv", "", "Optional CSV export of the refreshed series")
	)
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	seedPath := *seedFile
	if seedPath == "" {
		seedPath = *outputPath
	}
	var seed []data.RawSeason
	minSeason := cfg.Subgraph.MinSeason
	if snap, err := data.LoadSnapshot(seedPath); err == nil {
		seed = snap.Seasons
		if snap.MinSeason > 0 {
			minSeason = snap.MinSeason
		}
		log.Infof("loaded %d seasons from seed %s", len(seed), seedPath)
	} else {
		log.WithError(err).Warnf("no usable seed at %s, fetching from scratch", seedPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := data.NewSubgraphClient(data.ClientOptions{
		BeanURL:           cfg.Subgraph.BeanURL,
		FieldURL:          cfg.Subgraph.FieldURL,
		FieldAddress:      cfg.Subgraph.FieldAddress,
		BatchSize:         cfg.Subgraph.BatchSize,
		Retries:           cfg.Subgraph.Retries,
		RequestsPerSecond: cfg.Subgraph.RequestsPerSecond,
		Timeout:           cfg.Subgraph.Timeout,
	}, log)

	fresh, err := client.FetchAll(ctx, minSeason)
	if err != nil {
		log.WithError(err).Error("fetch failed")
		os.Exit(1)
	}

	merged, added, updated := data.RefreshSeasons(seed, fresh)
	if err := data.SaveSnapshot(*outputPath, data.NewSnapshot(client, minSeason, merged)); err != nil {
		log.WithError(err).Error("save snapshot")
		os.Exit(1)
	}
	if *csvPath != "" {
		if err := data.WriteSeasonCSVFile(*csvPath, merged); err != nil {
			log.WithError(err).Error("write csv")
			os.Exit(1)
		}
	}

	fmt.Printf("Saved %d seasons to %s (%d added, %d updated)\n", len(merged), *outputPath, added, updated)
}
