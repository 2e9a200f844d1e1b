package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/adapters/memory"
	"evacuation-planner-service/internal/domain"
	"sync"
	"testing"
	"time"
)

var errStoreDown = errors.New("store unavailable")

func zone(id string, lat, lon float64, people, urgency int) *domain.Zone {
	return &domain.Zone{
		ZoneID:     id,
		Location:   domain.Location{Latitude: lat, Longitude: lon},
		Population: people,
		Urgency:    urgency,
	}
}

func vehicle(id string, capacity int, speed, lat, lon float64) *domain.Vehicle {
	return &domain.Vehicle{
		VehicleID: id,
		Type:      "bus",
		Capacity:  capacity,
		SpeedKmh:  speed,
		Location:  domain.Location{Latitude: lat, Longitude: lon},
	}
}

func seedStore(t *testing.T, zones []*domain.Zone, vehicles []*domain.Vehicle) *memory.Store {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	for _, z := range zones {
		if err := store.PutZone(ctx, z); err != nil {
			t.Fatalf("put zone %s: %v", z.ZoneID, err)
		}
	}
	for _, v := range vehicles {
		if err := store.PutVehicle(ctx, v); err != nil {
			t.Fatalf("put vehicle %s: %v", v.VehicleID, err)
		}
	}
	return store
}

// failingStore injects errors into an otherwise working memory store.
type failingStore struct {
	*memory.Store
	listVehiclesErr error
	releaseErr      error
	putStatusErr    error
}

func (s *failingStore) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.listVehiclesErr != nil {
		return nil, s.listVehiclesErr
	}
	return s.Store.ListVehicles(ctx)
}

func (s *failingStore) ReleaseLock(ctx context.Context, key string) error {
	if err := s.Store.ReleaseLock(ctx, key); err != nil {
		return err
	}
	return s.releaseErr
}

func (s *failingStore) PutStatus(ctx context.Context, status *domain.EvacuationStatus) error {
	if s.putStatusErr != nil {
		return s.putStatusErr
	}
	return s.Store.PutStatus(ctx, status)
}

// gatedStore holds the first released lock until a second acquisition attempt
// has been made, so two concurrent planning runs are guaranteed to collide.
type gatedStore struct {
	*memory.Store

	mu       sync.Mutex
	attempts int
	second   chan struct{}
}

func newGatedStore(inner *memory.Store) *gatedStore {
	return &gatedStore{Store: inner, second: make(chan struct{})}
}

func (s *gatedStore) TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.Store.TryAcquireLock(ctx, key, ttl)

	s.mu.Lock()
	s.attempts++
	if s.attempts == 2 {
		close(s.second)
	}
	s.mu.Unlock()

	return ok, err
}

func (s *gatedStore) ReleaseLock(ctx context.Context, key string) error {
	select {
	case <-s.second:
	case <-time.After(5 * time.Second):
	}
	return s.Store.ReleaseLock(ctx, key)
}
