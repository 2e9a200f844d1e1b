package domain

import (
	"fmt"
	"strings"
)

// Rescue vehicle available to planning runs.
// Capacity and speed are treated as constant for the duration of a run.
type Vehicle struct {
	VehicleID string
	Type      string
	Capacity  int
	SpeedKmh  float64
	Location  Location
}

// Validate checks the operator supplied fields.
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.VehicleID) == "" {
		return fmt.Errorf("%w: vehicle id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(v.Type) == "" {
		return fmt.Errorf("%w: vehicle %q type is required", ErrInvalidInput, v.VehicleID)
	}
	if v.Capacity < 1 {
		return fmt.Errorf("%w: vehicle %q capacity must be at least 1", ErrInvalidInput, v.VehicleID)
	}
	if !(v.SpeedKmh > 0) {
		return fmt.Errorf("%w: vehicle %q speed must be greater than 0", ErrInvalidInput, v.VehicleID)
	}
	if err := v.Location.Validate(); err != nil {
		return fmt.Errorf("vehicle %q: %w", v.VehicleID, err)
	}
	return nil
}
