package main

import (
	"context"
	"evacuation-planner-service/internal/app"
	"evacuation-planner-service/internal/config"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/seed"
	"evacuation-planner-service/internal/services"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// dbtool prepares the configured store: it creates the Postgres schema when
// store=postgres, optionally wipes all data, and loads a seed file.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	wipe := false

	fs := pflag.NewFlagSet("dbtool", pflag.ExitOnError)
	cfg.AddFlags(fs)
	fs.BoolVar(&wipe, "clear", wipe, "Delete all zones, vehicles and statuses before seeding.")
	_ = fs.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := log.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Init(logger)

	if err := run(cfg, wipe, logger); err != nil {
		logger.Error(err, "dbtool failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, wipe bool, logger log.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("opening store", "backend", cfg.Store)
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("store ready")

	if wipe {
		tracker := services.NewStatusTracker(store, cfg.LockTTL, cfg.StatusLockAttempts, logger)
		if err := tracker.ClearAll(ctx); err != nil {
			return err
		}
	}

	if cfg.SeedPath == "" {
		logger.Info("no seed file given, nothing to load")
		return nil
	}

	logger.Info("seeding", "path", cfg.SeedPath)
	res, err := seed.FromJSON(ctx, services.NewRegistry(store, logger), cfg.SeedPath)
	if err != nil {
		return err
	}
	logger.Info("seeding complete", "zones", res.Zones, "vehicles", res.Vehicles)
	return nil
}
