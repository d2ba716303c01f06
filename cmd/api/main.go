package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convert-capacity/internal/api"
	"convert-capacity/internal/config"
	"convert-capacity/internal/data"
	"convert-capacity/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults when empty)")
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Env: cfg.API.Env})

	params, err := cfg.Params()
	if err != nil {
		log.WithError(err).Error("invalid ladders")
		os.Exit(1)
	}

	if cfg.API.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subgraph responses are stable for the length of a season.
	cache := data.NewResponseCache(time.Hour)
	cache.StartCleanup(ctx, 10*time.Minute)
	client := data.NewSubgraphClient(data.ClientOptions{
		BeanURL:           cfg.Subgraph.BeanURL,
		FieldURL:          cfg.Subgraph.FieldURL,
		FieldAddress:      cfg.Subgraph.FieldAddress,
		BatchSize:         cfg.Subgraph.BatchSize,
		Retries:           cfg.Subgraph.Retries,
		RequestsPerSecond: cfg.Subgraph.RequestsPerSecond,
		Timeout:           cfg.Subgraph.Timeout,
		Cache:             cache,
	}, log)

	router := api.NewRouter(api.Deps{
		Params:         params,
		Synthetic:      cfg.SyntheticOptions(),
		ScenarioDir:    cfg.API.ScenarioDir,
		Fetcher:        client,
		MinSeason:      cfg.Subgraph.MinSeason,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.API.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(map[string]interface{}{
		"addr":      srv.Addr,
		"env":       cfg.API.Env,
		"divisors":  len(params.Divisors),
		"deltas":    len(params.Deltas),
		"scenarios": cfg.API.ScenarioDir,
	}).Info("starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server failed")
		os.Exit(1)
	}
	log.Info("server stopped")
}
