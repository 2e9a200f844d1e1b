package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// PlansGenerated counts completed planning runs.
	PlansGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evac_plans_generated_total",
			Help: "Total number of evacuation planning runs that completed.",
		},
	)

	// Assignments counts plan entries, split by selection strategy (best_fit/largest).
	Assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evac_plan_assignments_total",
			Help: "Total number of vehicle-to-zone assignments produced by planning runs.",
		},
		[]string{"strategy"},
	)

	VehicleLockContention = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evac_vehicle_lock_contention_total",
			Help: "Vehicles skipped because another planning run held their lock.",
		},
	)

	UnservedZones = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evac_unserved_zones_total",
			Help: "Zones left with people remaining at the end of a planning run.",
		},
	)

	// StatusUpdates counts evacuation status updates by result
	// (ok, not_found, over_evacuation, invalid, busy, error).
	StatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evac_status_updates_total",
			Help: "Total number of evacuation status updates by result.",
		},
		[]string{"result"},
	)

	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evac_plan_duration_seconds",
			Help:    "Wall time of evacuation planning runs.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Registry holds the service collectors plus the Go runtime and process collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PlansGenerated,
		Assignments,
		VehicleLockContention,
		UnservedZones,
		StatusUpdates,
		PlanDuration,
	)
}
