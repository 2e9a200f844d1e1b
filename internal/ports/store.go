package ports

import (
	"context"
	"evacuation-planner-service/internal/domain"
)

// Port: zone records keyed by zone ID, last write wins.
type ZoneRepository interface {
	PutZone(ctx context.Context, zone *domain.Zone) error
	// Return domain.ErrNotFound when the zone does not exist.
	GetZone(ctx context.Context, zoneID string) (*domain.Zone, error)
	// Return all zones in load order.
	ListZones(ctx context.Context) ([]*domain.Zone, error)
}

// Port: vehicle records keyed by vehicle ID, last write wins.
type VehicleRepository interface {
	PutVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	// Return domain.ErrNotFound when the vehicle does not exist.
	GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
}

// Port: evacuation status records keyed by zone ID, saved as whole records.
type StatusRepository interface {
	PutStatus(ctx context.Context, status *domain.EvacuationStatus) error
	// Return domain.ErrNotFound when no status was ever saved for the zone.
	GetStatus(ctx context.Context, zoneID string) (*domain.EvacuationStatus, error)
	ListStatuses(ctx context.Context) ([]*domain.EvacuationStatus, error)
}

// Boundary for the whole persistence gateway consumed by the services.
// Each storage technology provides one adapter implementing it.
type EvacuationStore interface {
	ZoneRepository
	VehicleRepository
	StatusRepository
	Locker

	// Remove every zone, vehicle and status record.
	ClearAll(ctx context.Context) error
}
