package services

import (
	"context"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/ports"
	"fmt"
)

// Registry accepts operator input for zones and vehicles.
type Registry struct {
	store ports.EvacuationStore
	log   log.Logger
}

func NewRegistry(store ports.EvacuationStore, logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Registry{store: store, log: logger}
}

// AddZone validates and saves zone, replacing any zone with the same ID.
func (r *Registry) AddZone(ctx context.Context, zone *domain.Zone) error {
	if err := zone.Validate(); err != nil {
		return fmt.Errorf("add zone: %w", err)
	}
	if err := r.store.PutZone(ctx, zone); err != nil {
		return fmt.Errorf("add zone: %w", err)
	}

	r.log.Info("zone added",
		"zone_id", zone.ZoneID,
		"lat", zone.Location.Latitude,
		"lon", zone.Location.Longitude,
		"people", zone.Population,
		"urgency", zone.Urgency,
	)
	return nil
}

// AddVehicle validates and saves vehicle, replacing any vehicle with the same ID.
func (r *Registry) AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return fmt.Errorf("add vehicle: %w", err)
	}
	if err := r.store.PutVehicle(ctx, vehicle); err != nil {
		return fmt.Errorf("add vehicle: %w", err)
	}

	r.log.Info("vehicle added",
		"vehicle_id", vehicle.VehicleID,
		"type", vehicle.Type,
		"capacity", vehicle.Capacity,
		"speed_kmh", vehicle.SpeedKmh,
	)
	return nil
}
