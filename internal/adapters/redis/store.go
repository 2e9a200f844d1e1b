package redis

import (
	"context"
	"encoding/json"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/obs"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	zonesKey    = "zones"
	vehiclesKey = "vehicles"
	statusKey   = "status"

	lockValue = "locked"
)

var _ ports.EvacuationStore = (*Store)(nil)

// Redis-backed implementation of the EvacuationStore port.
//
// Each collection is a hash keyed by record ID holding a JSON document.
// Locks are plain string keys set with NX and an expiry, released with DEL.
type Store struct {
	rdb goredis.Cmdable
}

func NewStore(rdb goredis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) PutZone(ctx context.Context, zone *domain.Zone) error {
	if zone == nil {
		return fmt.Errorf("redis store: put zone: %w: zone is nil", domain.ErrInvalidInput)
	}
	if err := s.hset(ctx, zonesKey, zone.ZoneID, toZoneRecord(zone)); err != nil {
		return fmt.Errorf("redis store: put zone %q: %w", zone.ZoneID, err)
	}
	return nil
}

func (s *Store) GetZone(ctx context.Context, zoneID string) (*domain.Zone, error) {
	var rec zoneRecord
	if err := s.hget(ctx, zonesKey, zoneID, &rec); err != nil {
		return nil, fmt.Errorf("redis store: get zone %q: %w", zoneID, err)
	}
	return rec.toDomain(), nil
}

func (s *Store) ListZones(ctx context.Context) (_ []*domain.Zone, err error) {
	defer obs.Time(ctx, "redis.ListZones")(&err)

	vals, err := s.rdb.HVals(ctx, zonesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list zones: %w", err)
	}

	zones := make([]*domain.Zone, 0, len(vals))
	for _, v := range vals {
		var rec zoneRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("redis store: list zones: decode: %w", err)
		}
		zones = append(zones, rec.toDomain())
	}
	return zones, nil
}

func (s *Store) PutVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("redis store: put vehicle: %w: vehicle is nil", domain.ErrInvalidInput)
	}
	if err := s.hset(ctx, vehiclesKey, vehicle.VehicleID, toVehicleRecord(vehicle)); err != nil {
		return fmt.Errorf("redis store: put vehicle %q: %w", vehicle.VehicleID, err)
	}
	return nil
}

func (s *Store) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	var rec vehicleRecord
	if err := s.hget(ctx, vehiclesKey, vehicleID, &rec); err != nil {
		return nil, fmt.Errorf("redis store: get vehicle %q: %w", vehicleID, err)
	}
	return rec.toDomain(), nil
}

func (s *Store) ListVehicles(ctx context.Context) (_ []*domain.Vehicle, err error) {
	defer obs.Time(ctx, "redis.ListVehicles")(&err)

	vals, err := s.rdb.HVals(ctx, vehiclesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list vehicles: %w", err)
	}

	vehicles := make([]*domain.Vehicle, 0, len(vals))
	for _, v := range vals {
		var rec vehicleRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("redis store: list vehicles: decode: %w", err)
		}
		vehicles = append(vehicles, rec.toDomain())
	}
	return vehicles, nil
}

func (s *Store) PutStatus(ctx context.Context, status *domain.EvacuationStatus) error {
	if status == nil {
		return fmt.Errorf("redis store: put status: %w: status is nil", domain.ErrInvalidInput)
	}
	if err := s.hset(ctx, statusKey, status.ZoneID, toStatusRecord(status)); err != nil {
		return fmt.Errorf("redis store: put status for zone %q: %w", status.ZoneID, err)
	}
	return nil
}

func (s *Store) GetStatus(ctx context.Context, zoneID string) (*domain.EvacuationStatus, error) {
	var rec statusRecord
	if err := s.hget(ctx, statusKey, zoneID, &rec); err != nil {
		return nil, fmt.Errorf("redis store: get status for zone %q: %w", zoneID, err)
	}
	return rec.toDomain(), nil
}

func (s *Store) ListStatuses(ctx context.Context) (_ []*domain.EvacuationStatus, err error) {
	defer obs.Time(ctx, "redis.ListStatuses")(&err)

	vals, err := s.rdb.HVals(ctx, statusKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list statuses: %w", err)
	}

	statuses := make([]*domain.EvacuationStatus, 0, len(vals))
	for _, v := range vals {
		var rec statusRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("redis store: list statuses: decode: %w", err)
		}
		statuses = append(statuses, rec.toDomain())
	}
	return statuses, nil
}

// Remove the three collection hashes in a single DEL.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.rdb.Del(ctx, zonesKey, vehiclesKey, statusKey).Err(); err != nil {
		return fmt.Errorf("redis store: clear all: %w", err)
	}
	return nil
}

func (s *Store) TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, lockValue, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis store: acquire lock %q: %w", key, err)
	}
	return ok, nil
}

func (s *Store) ReleaseLock(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis store: release lock %q: %w", key, err)
	}
	return nil
}

func (s *Store) hset(ctx context.Context, key, field string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.rdb.HSet(ctx, key, field, b).Err()
}

func (s *Store) hget(ctx context.Context, key, field string, v any) error {
	raw, err := s.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
