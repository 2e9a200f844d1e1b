package domain

// Single vehicle assignment produced by a planning run.
// A PlanEntry is ephemeral output; it is never persisted.
type PlanEntry struct {
	ZoneID     string
	VehicleID  string
	ETAMinutes int
	People     int
	DistanceKm float64
}
