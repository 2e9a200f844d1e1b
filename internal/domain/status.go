package domain

// Phase of a zone evacuation. It is derived from the counters and never stored.
type Phase string

const (
	PhasePending    Phase = "pending"
	PhaseInProgress Phase = "in_progress"
	PhaseEvacuated  Phase = "evacuated"
)

// Persisted evacuation progress for a single zone.
// Invariant: RemainingPeople + TotalEvacuated equals the zone population.
type EvacuationStatus struct {
	ZoneID          string
	TotalEvacuated  int
	RemainingPeople int
	LastVehicleUsed *string
}

// NewEvacuationStatus returns the status of a zone nobody has been evacuated from yet.
func NewEvacuationStatus(z *Zone) *EvacuationStatus {
	return &EvacuationStatus{
		ZoneID:          z.ZoneID,
		TotalEvacuated:  0,
		RemainingPeople: z.Population,
	}
}

func (s *EvacuationStatus) Phase() Phase {
	switch {
	case s.RemainingPeople <= 0:
		return PhaseEvacuated
	case s.TotalEvacuated == 0:
		return PhasePending
	default:
		return PhaseInProgress
	}
}
