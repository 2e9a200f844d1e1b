package seed

import (
	"context"
	"encoding/json"
	"evacuation-planner-service/internal/domain"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Registrar is the subset of the registry used for seeding.
type Registrar interface {
	AddZone(ctx context.Context, zone *domain.Zone) error
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type zoneSeed struct {
	ZoneID              string   `json:"zoneID"`
	LocationCoordinates location `json:"locationCoordinates"`
	NumberOfPeople      int      `json:"numberOfPeople"`
	UrgencyLevel        int      `json:"urgencyLevel"`
}

type vehicleSeed struct {
	VehicleID           string   `json:"vehicleID"`
	Type                string   `json:"type"`
	Capacity            int      `json:"capacity"`
	Speed               float64  `json:"speed"`
	LocationCoordinates location `json:"locationCoordinates"`
}

// File is the on-disk seed format, using the same field names as the HTTP API.
type File struct {
	Zones    []zoneSeed    `json:"zones"`
	Vehicles []vehicleSeed `json:"vehicles"`
}

// Result counts what was loaded.
type Result struct {
	Zones    int
	Vehicles int
}

// FromJSON populates the store behind reg with the zones and vehicles in jsonPath.
// Every record is validated by the registry; the first invalid one aborts seeding.
func FromJSON(ctx context.Context, reg Registrar, jsonPath string) (Result, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data File
	if err := json.Unmarshal(bytes, &data); err != nil {
		return Result{}, fmt.Errorf("seed: parse json: %w", err)
	}

	return Load(ctx, reg, &data)
}

// Load adds data through reg. Zones and vehicles are loaded concurrently, each
// list in file order.
func Load(ctx context.Context, reg Registrar, data *File) (Result, error) {
	var res Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, z := range data.Zones {
			zone := &domain.Zone{
				ZoneID: z.ZoneID,
				Location: domain.Location{
					Latitude:  z.LocationCoordinates.Latitude,
					Longitude: z.LocationCoordinates.Longitude,
				},
				Population: z.NumberOfPeople,
				Urgency:    z.UrgencyLevel,
			}
			if err := reg.AddZone(gctx, zone); err != nil {
				return fmt.Errorf("zone at index %d: %w", i+1, err)
			}
			res.Zones++
		}
		return nil
	})
	g.Go(func() error {
		for i, v := range data.Vehicles {
			vehicle := &domain.Vehicle{
				VehicleID: v.VehicleID,
				Type:      v.Type,
				Capacity:  v.Capacity,
				SpeedKmh:  v.Speed,
				Location: domain.Location{
					Latitude:  v.LocationCoordinates.Latitude,
					Longitude: v.LocationCoordinates.Longitude,
				},
			}
			if err := reg.AddVehicle(gctx, vehicle); err != nil {
				return fmt.Errorf("vehicle at index %d: %w", i+1, err)
			}
			res.Vehicles++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("seed: %w", err)
	}
	return res, nil
}
