package domain

import "fmt"

// Immutable geographic coordinates in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.6f must be between -90 and 90", ErrInvalidInput, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.6f must be between -180 and 180", ErrInvalidInput, l.Longitude)
	}
	return nil
}
