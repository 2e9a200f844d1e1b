package domain

import (
	"fmt"
	"strings"
)

const (
	MinUrgency = 1
	MaxUrgency = 5
)

// Represents a populated area that must be evacuated.
// A Zone is created from operator input and is not modified afterwards;
// progress is tracked separately by EvacuationStatus.
type Zone struct {
	ZoneID     string
	Location   Location
	Population int
	Urgency    int
}

// Validate checks the operator supplied fields.
func (z *Zone) Validate() error {
	if strings.TrimSpace(z.ZoneID) == "" {
		return fmt.Errorf("%w: zone id is required", ErrInvalidInput)
	}
	if z.Population < 1 {
		return fmt.Errorf("%w: zone %q number of people must be at least 1", ErrInvalidInput, z.ZoneID)
	}
	if z.Urgency < MinUrgency || z.Urgency > MaxUrgency {
		return fmt.Errorf(
			"%w: zone %q urgency level must be between %d (low) and %d (high)",
			ErrInvalidInput, z.ZoneID, MinUrgency, MaxUrgency,
		)
	}
	if err := z.Location.Validate(); err != nil {
		return fmt.Errorf("zone %q: %w", z.ZoneID, err)
	}
	return nil
}
