package postgres

import (
	"context"
	"database/sql"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/obs"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"time"
)

var _ ports.EvacuationStore = (*Store)(nil)

// Postgres-backed implementation of the EvacuationStore port.
//
// Records are upserted by primary key, so saves are whole-record and last write
// wins. Lists are ordered by first insertion. Locks are rows with an expiry that
// an acquisition may only overwrite once expired.
type Store struct{ DB *sql.DB }

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) PutZone(ctx context.Context, zone *domain.Zone) error {
	if s.DB == nil {
		return errors.New("postgres store: DB is nil")
	}
	if zone == nil {
		return fmt.Errorf("put zone: %w: zone is nil", domain.ErrInvalidInput)
	}

	q := `
	INSERT INTO zones (zone_id, latitude, longitude, population, urgency)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (zone_id) DO UPDATE
	SET latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		population = EXCLUDED.population,
		urgency = EXCLUDED.urgency;
	`
	_, err := s.DB.ExecContext(ctx, q,
		zone.ZoneID, zone.Location.Latitude, zone.Location.Longitude, zone.Population, zone.Urgency,
	)
	if err != nil {
		return fmt.Errorf("put zone %q: %w", zone.ZoneID, err)
	}
	return nil
}

func (s *Store) GetZone(ctx context.Context, zoneID string) (*domain.Zone, error) {
	q := `
	SELECT zone_id, latitude, longitude, population, urgency
	FROM zones
	WHERE zone_id = $1;
	`
	z, err := scanZone(s.DB.QueryRowContext(ctx, q, zoneID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get zone %q: %w", zoneID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get zone %q: %w", zoneID, err)
	}
	return z, nil
}

func (s *Store) ListZones(ctx context.Context) (_ []*domain.Zone, err error) {
	defer obs.Time(ctx, "postgres.ListZones")(&err)

	q := `
	SELECT zone_id, latitude, longitude, population, urgency
	FROM zones
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list zones: query zones table: %w", err)
	}
	defer rows.Close()

	zones := make([]*domain.Zone, 0, 64)
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("list zones: scan row: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list zones: row iteration: %w", err)
	}

	return zones, nil
}

func (s *Store) PutVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if s.DB == nil {
		return errors.New("postgres store: DB is nil")
	}
	if vehicle == nil {
		return fmt.Errorf("put vehicle: %w: vehicle is nil", domain.ErrInvalidInput)
	}

	q := `
	INSERT INTO vehicles (vehicle_id, vehicle_type, capacity, speed_kmh, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (vehicle_id) DO UPDATE
	SET vehicle_type = EXCLUDED.vehicle_type,
		capacity = EXCLUDED.capacity,
		speed_kmh = EXCLUDED.speed_kmh,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude;
	`
	_, err := s.DB.ExecContext(ctx, q,
		vehicle.VehicleID, vehicle.Type, vehicle.Capacity, vehicle.SpeedKmh,
		vehicle.Location.Latitude, vehicle.Location.Longitude,
	)
	if err != nil {
		return fmt.Errorf("put vehicle %q: %w", vehicle.VehicleID, err)
	}
	return nil
}

func (s *Store) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	q := `
	SELECT vehicle_id, vehicle_type, capacity, speed_kmh, latitude, longitude
	FROM vehicles
	WHERE vehicle_id = $1;
	`
	v, err := scanVehicle(s.DB.QueryRowContext(ctx, q, vehicleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vehicle %q: %w", vehicleID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %q: %w", vehicleID, err)
	}
	return v, nil
}

func (s *Store) ListVehicles(ctx context.Context) (_ []*domain.Vehicle, err error) {
	defer obs.Time(ctx, "postgres.ListVehicles")(&err)

	q := `
	SELECT vehicle_id, vehicle_type, capacity, speed_kmh, latitude, longitude
	FROM vehicles
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 64)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *Store) PutStatus(ctx context.Context, status *domain.EvacuationStatus) error {
	if s.DB == nil {
		return errors.New("postgres store: DB is nil")
	}
	if status == nil {
		return fmt.Errorf("put status: %w: status is nil", domain.ErrInvalidInput)
	}

	q := `
	INSERT INTO evacuation_status (zone_id, total_evacuated, remaining_people, last_vehicle_used)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (zone_id) DO UPDATE
	SET total_evacuated = EXCLUDED.total_evacuated,
		remaining_people = EXCLUDED.remaining_people,
		last_vehicle_used = EXCLUDED.last_vehicle_used;
	`
	var last sql.NullString
	if status.LastVehicleUsed != nil {
		last = sql.NullString{String: *status.LastVehicleUsed, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx, q, status.ZoneID, status.TotalEvacuated, status.RemainingPeople, last)
	if err != nil {
		return fmt.Errorf("put status for zone %q: %w", status.ZoneID, err)
	}
	return nil
}

func (s *Store) GetStatus(ctx context.Context, zoneID string) (*domain.EvacuationStatus, error) {
	q := `
	SELECT zone_id, total_evacuated, remaining_people, last_vehicle_used
	FROM evacuation_status
	WHERE zone_id = $1;
	`
	st, err := scanStatus(s.DB.QueryRowContext(ctx, q, zoneID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get status for zone %q: %w", zoneID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get status for zone %q: %w", zoneID, err)
	}
	return st, nil
}

func (s *Store) ListStatuses(ctx context.Context) (_ []*domain.EvacuationStatus, err error) {
	defer obs.Time(ctx, "postgres.ListStatuses")(&err)

	q := `
	SELECT zone_id, total_evacuated, remaining_people, last_vehicle_used
	FROM evacuation_status
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list statuses: query evacuation_status table: %w", err)
	}
	defer rows.Close()

	statuses := make([]*domain.EvacuationStatus, 0, 64)
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("list statuses: scan row: %w", err)
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list statuses: row iteration: %w", err)
	}

	return statuses, nil
}

// Truncate the three collections in one statement so the clear is atomic.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `TRUNCATE zones, vehicles, evacuation_status;`); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

// An existing row only blocks acquisition while it has not expired.
func (s *Store) TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	q := `
	INSERT INTO locks (lock_key, expires_at)
	VALUES ($1, now() + make_interval(secs => $2))
	ON CONFLICT (lock_key) DO UPDATE
	SET expires_at = EXCLUDED.expires_at
	WHERE locks.expires_at <= now();
	`
	res, err := s.DB.ExecContext(ctx, q, key, ttl.Seconds())
	if err != nil {
		return false, fmt.Errorf("acquire lock %q: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("acquire lock %q: rows affected: %w", key, err)
	}
	return n == 1, nil
}

func (s *Store) ReleaseLock(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM locks WHERE lock_key = $1;`, key); err != nil {
		return fmt.Errorf("release lock %q: %w", key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(r rowScanner) (*domain.Zone, error) {
	var z domain.Zone
	if err := r.Scan(&z.ZoneID, &z.Location.Latitude, &z.Location.Longitude, &z.Population, &z.Urgency); err != nil {
		return nil, err
	}
	return &z, nil
}

func scanVehicle(r rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := r.Scan(&v.VehicleID, &v.Type, &v.Capacity, &v.SpeedKmh, &v.Location.Latitude, &v.Location.Longitude); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanStatus(r rowScanner) (*domain.EvacuationStatus, error) {
	var (
		st   domain.EvacuationStatus
		last sql.NullString
	)
	if err := r.Scan(&st.ZoneID, &st.TotalEvacuated, &st.RemainingPeople, &last); err != nil {
		return nil, err
	}
	if last.Valid {
		v := last.String
		st.LastVehicleUsed = &v
	}
	return &st, nil
}
