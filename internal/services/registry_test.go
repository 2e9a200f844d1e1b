package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"testing"
)

func TestRegistryAddZone(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, nil, nil)
	reg := NewRegistry(store, nil)

	if err := reg.AddZone(ctx, zone("Z1", 13.7, 100.5, 10, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same ID replaces the earlier record.
	if err := reg.AddZone(ctx, zone("Z1", 13.7, 100.5, 25, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetZone(ctx, "Z1")
	if err != nil {
		t.Fatalf("get zone: %v", err)
	}
	if got.Population != 25 || got.Urgency != 5 {
		t.Fatalf("zone = %+v, want replaced record", got)
	}

	invalid := []*domain.Zone{
		zone("", 0, 0, 10, 3),
		zone("Z2", 0, 0, 0, 3),
		zone("Z2", 0, 0, 10, 0),
		zone("Z2", 0, 0, 10, 6),
		zone("Z2", 91, 0, 10, 3),
		zone("Z2", 0, -181, 10, 3),
	}
	for _, z := range invalid {
		if err := reg.AddZone(ctx, z); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("AddZone(%+v) err = %v, want %v", z, err, domain.ErrInvalidInput)
		}
	}
	if _, err := store.GetZone(ctx, "Z2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("invalid zone was stored: err = %v", err)
	}
}

func TestRegistryAddVehicle(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, nil, nil)
	reg := NewRegistry(store, nil)

	if err := reg.AddVehicle(ctx, vehicle("V1", 40, 60, 13.7, 100.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noType := vehicle("V2", 10, 60, 0, 0)
	noType.Type = " "

	invalid := []*domain.Vehicle{
		vehicle("", 10, 60, 0, 0),
		vehicle("V2", 0, 60, 0, 0),
		vehicle("V2", 10, 0, 0, 0),
		vehicle("V2", 10, -5, 0, 0),
		vehicle("V2", 10, 60, -90.5, 0),
		noType,
	}
	for _, v := range invalid {
		if err := reg.AddVehicle(ctx, v); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("AddVehicle(%+v) err = %v, want %v", v, err, domain.ErrInvalidInput)
		}
	}

	vehicles, err := store.ListVehicles(ctx)
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].VehicleID != "V1" {
		t.Fatalf("vehicles = %+v, want only V1", vehicles)
	}
}
