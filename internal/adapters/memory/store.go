package memory

import (
	"context"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"sync"
	"time"
)

var _ ports.EvacuationStore = (*Store)(nil)

// In-process implementation of the EvacuationStore port.
// Records are copied on the way in and out so callers never share memory with
// the store, matching the whole-record semantics of the networked adapters.
// Lists preserve first-insertion order.
type Store struct {
	mu sync.Mutex

	zones     map[string]domain.Zone
	zoneOrder []string
	vehicles  map[string]domain.Vehicle
	vehOrder  []string
	statuses  map[string]domain.EvacuationStatus
	statOrder []string
	locks     map[string]time.Time
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		zones:    make(map[string]domain.Zone),
		vehicles: make(map[string]domain.Vehicle),
		statuses: make(map[string]domain.EvacuationStatus),
		locks:    make(map[string]time.Time),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for lock expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) PutZone(ctx context.Context, zone *domain.Zone) error {
	if zone == nil {
		return fmt.Errorf("memory store: put zone: %w: zone is nil", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.zones[zone.ZoneID]; !ok {
		s.zoneOrder = append(s.zoneOrder, zone.ZoneID)
	}
	s.zones[zone.ZoneID] = *zone
	return nil
}

func (s *Store) GetZone(ctx context.Context, zoneID string) (*domain.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := s.zones[zoneID]
	if !ok {
		return nil, fmt.Errorf("memory store: zone %q: %w", zoneID, domain.ErrNotFound)
	}
	return &z, nil
}

func (s *Store) ListZones(ctx context.Context) ([]*domain.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Zone, 0, len(s.zoneOrder))
	for _, id := range s.zoneOrder {
		z := s.zones[id]
		out = append(out, &z)
	}
	return out, nil
}

func (s *Store) PutVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("memory store: put vehicle: %w: vehicle is nil", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[vehicle.VehicleID]; !ok {
		s.vehOrder = append(s.vehOrder, vehicle.VehicleID)
	}
	s.vehicles[vehicle.VehicleID] = *vehicle
	return nil
}

func (s *Store) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[vehicleID]
	if !ok {
		return nil, fmt.Errorf("memory store: vehicle %q: %w", vehicleID, domain.ErrNotFound)
	}
	return &v, nil
}

func (s *Store) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(s.vehOrder))
	for _, id := range s.vehOrder {
		v := s.vehicles[id]
		out = append(out, &v)
	}
	return out, nil
}

func (s *Store) PutStatus(ctx context.Context, status *domain.EvacuationStatus) error {
	if status == nil {
		return fmt.Errorf("memory store: put status: %w: status is nil", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[status.ZoneID]; !ok {
		s.statOrder = append(s.statOrder, status.ZoneID)
	}
	s.statuses[status.ZoneID] = copyStatus(*status)
	return nil
}

func (s *Store) GetStatus(ctx context.Context, zoneID string) (*domain.EvacuationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[zoneID]
	if !ok {
		return nil, fmt.Errorf("memory store: status for zone %q: %w", zoneID, domain.ErrNotFound)
	}
	st = copyStatus(st)
	return &st, nil
}

func (s *Store) ListStatuses(ctx context.Context) ([]*domain.EvacuationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.EvacuationStatus, 0, len(s.statOrder))
	for _, id := range s.statOrder {
		st := copyStatus(s.statuses[id])
		out = append(out, &st)
	}
	return out, nil
}

// Remove every zone, vehicle and status. Locks are left to expire on their own.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zones = make(map[string]domain.Zone)
	s.zoneOrder = nil
	s.vehicles = make(map[string]domain.Vehicle)
	s.vehOrder = nil
	s.statuses = make(map[string]domain.EvacuationStatus)
	s.statOrder = nil
	return nil
}

func (s *Store) TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("memory store: acquire lock %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.locks[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.locks[key] = now.Add(ttl)
	return true, nil
}

func (s *Store) ReleaseLock(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}

func copyStatus(st domain.EvacuationStatus) domain.EvacuationStatus {
	if st.LastVehicleUsed != nil {
		v := *st.LastVehicleUsed
		st.LastVehicleUsed = &v
	}
	return st
}
