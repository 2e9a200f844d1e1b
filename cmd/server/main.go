package main

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/api"
	"evacuation-planner-service/internal/app"
	"evacuation-planner-service/internal/config"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/seed"
	"evacuation-planner-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the configured store behind the ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load("evacuation-server", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := log.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Init(logger)

	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error(err, "server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	ctx := context.Background()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("store ready", "backend", cfg.Store)

	registry := services.NewRegistry(store, logger.WithName("registry"))
	allocator := services.NewAllocator(store, cfg.LockTTL, logger.WithName("allocator"))
	tracker := services.NewStatusTracker(store, cfg.LockTTL, cfg.StatusLockAttempts, logger.WithName("status"))

	// Seed demo data on startup for local runs.
	if cfg.SeedPath != "" {
		res, err := seed.FromJSON(ctx, registry, cfg.SeedPath)
		if err != nil {
			return err
		}
		logger.Info("seed loaded", "path", cfg.SeedPath, "zones", res.Zones, "vehicles", res.Vehicles)
	}

	router := api.NewRouter(api.Deps{
		Registry:    registry,
		Planner:     allocator,
		Tracker:     tracker,
		HealthCheck: store.Ping,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}
