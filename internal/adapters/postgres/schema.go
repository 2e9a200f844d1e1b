package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the tables used by Store if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS zones (
		seq BIGSERIAL NOT NULL,
		zone_id TEXT PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		population INTEGER NOT NULL CHECK (population >= 1),
		urgency INTEGER NOT NULL CHECK (urgency BETWEEN 1 AND 5)
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		seq BIGSERIAL NOT NULL,
		vehicle_id TEXT PRIMARY KEY,
		vehicle_type TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity >= 1),
		speed_kmh DOUBLE PRECISION NOT NULL CHECK (speed_kmh > 0),
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

	createStatusQuery := `
	CREATE TABLE IF NOT EXISTS evacuation_status (
		seq BIGSERIAL NOT NULL,
		zone_id TEXT PRIMARY KEY,
		total_evacuated INTEGER NOT NULL CHECK (total_evacuated >= 0),
		remaining_people INTEGER NOT NULL CHECK (remaining_people >= 0),
		last_vehicle_used TEXT
	);
	`

	createLocksQuery := `
	CREATE TABLE IF NOT EXISTS locks (
		lock_key TEXT PRIMARY KEY,
		expires_at TIMESTAMPTZ NOT NULL
	);
	`

	statements := []string{
		createZonesQuery,
		createVehiclesQuery,
		createStatusQuery,
		createLocksQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
