package domain

import "errors"

// Sentinel errors shared by services, adapters and handlers.
// Callers wrap them with operation context and match with errors.Is.
var (
	ErrNoZones        = errors.New("no evacuation zones added")
	ErrNoVehicles     = errors.New("no vehicles available")
	ErrNotFound       = errors.New("not found")
	ErrOverEvacuation = errors.New("evacuated count exceeds remaining people")
	ErrInvalidInput   = errors.New("invalid input")
	ErrZoneBusy       = errors.New("zone is being updated concurrently")
)
