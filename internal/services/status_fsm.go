package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"fmt"

	"github.com/looplab/fsm"
)

const (
	// EventEvacuate records progress that leaves people in the zone.
	EventEvacuate = "evacuate"
	// EventComplete records progress that empties the zone.
	EventComplete = "complete"
)

// statusMachine tracks the phase of one zone across a single update.
// Phases only move forward: pending -> in_progress -> evacuated, and an
// evacuated zone accepts no further events.
type statusMachine struct {
	*fsm.FSM
	zoneID string
	log    log.Logger
}

func newStatusMachine(zoneID string, current domain.Phase, logger log.Logger) *statusMachine {
	m := &statusMachine{zoneID: zoneID, log: logger}

	events := fsm.Events{
		{
			Name: EventEvacuate,
			Src:  []string{string(domain.PhasePending), string(domain.PhaseInProgress)},
			Dst:  string(domain.PhaseInProgress),
		},
		{
			Name: EventComplete,
			Src:  []string{string(domain.PhasePending), string(domain.PhaseInProgress)},
			Dst:  string(domain.PhaseEvacuated),
		},
	}

	callbacks := fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			m.log.Debug("zone phase changed", "zone_id", m.zoneID, "from", e.Src, "to", e.Dst)
		},
		"enter_" + string(domain.PhaseEvacuated): func(_ context.Context, e *fsm.Event) {
			m.log.Info("zone fully evacuated", "zone_id", m.zoneID)
		},
	}

	m.FSM = fsm.NewFSM(string(current), events, callbacks)
	return m
}

// advance fires the event matching an evacuation of count people out of remaining
// and returns the resulting phase. Staying in_progress is a valid outcome.
func (m *statusMachine) advance(ctx context.Context, count, remaining int) (domain.Phase, error) {
	event := EventEvacuate
	if count == remaining {
		event = EventComplete
	}

	if err := m.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return "", fmt.Errorf("zone %q phase %s: %s: %w", m.zoneID, m.Current(), event, err)
		}
	}
	return domain.Phase(m.Current()), nil
}
