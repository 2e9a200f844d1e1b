package api

import (
	"context"
	"evacuation-planner-service/internal/api/handlers"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/platform/metrics"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Deps are the services the HTTP layer depends on.
type Deps struct {
	Registry    handlers.Registrar
	Planner     handlers.Planner
	Tracker     handlers.StatusService
	HealthCheck func(ctx context.Context) error
	CORSOrigins []string
	Log         log.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	logger := deps.Log
	if logger == nil {
		logger = log.NewNopLogger()
	}

	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Check: deps.HealthCheck, Log: logger.WithName("health")}
	zones := &handlers.ZoneHandler{Registry: deps.Registry, Log: logger.WithName("zones")}
	vehicles := &handlers.VehicleHandler{Registry: deps.Registry, Log: logger.WithName("vehicles")}
	evac := &handlers.EvacuationHandler{
		Planner: deps.Planner,
		Tracker: deps.Tracker,
		Log:     logger.WithName("evacuations"),
	}

	mux.HandleFunc("/health", health.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/evacuation-zones", zones.Create)
	mux.HandleFunc("/api/vehicles", vehicles.Create)
	mux.HandleFunc("/api/evacuations/plan", evac.Plan)
	mux.HandleFunc("/api/evacuations/status", evac.Status)
	mux.HandleFunc("/api/evacuations/update", evac.Update)
	mux.HandleFunc("/api/evacuations/clear", evac.Clear)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(mux), logger.WithName("http")))
}
