package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/platform/metrics"
	"evacuation-planner-service/internal/platform/obs"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const statusLockBackoff = 25 * time.Millisecond

// StatusTracker records realized evacuations per zone.
//
// Updates for the same zone are serialized through the zone lock, so two
// concurrent reports cannot overwrite each other's progress.
type StatusTracker struct {
	store        ports.EvacuationStore
	lockTTL      time.Duration
	lockAttempts int
	lockBackoff  time.Duration
	log          log.Logger
}

func NewStatusTracker(store ports.EvacuationStore, lockTTL time.Duration, lockAttempts int, logger log.Logger) *StatusTracker {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	if lockAttempts < 1 {
		lockAttempts = 1
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &StatusTracker{
		store:        store,
		lockTTL:      lockTTL,
		lockAttempts: lockAttempts,
		lockBackoff:  statusLockBackoff,
		log:          logger,
	}
}

// RecordEvacuation applies count evacuated people from zoneID using vehicleID and
// returns the saved status. The zone's status is created at full population the
// first time it is updated.
func (t *StatusTracker) RecordEvacuation(
	ctx context.Context,
	zoneID string,
	vehicleID string,
	count int,
) (_ *domain.EvacuationStatus, err error) {
	defer obs.Time(ctx, "status.RecordEvacuation")(&err)
	defer func() { metrics.StatusUpdates.WithLabelValues(updateResult(err)).Inc() }()

	if count < 1 {
		return nil, fmt.Errorf("record evacuation: %w: evacuated count must be at least 1", domain.ErrInvalidInput)
	}

	zone, err := t.store.GetZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("record evacuation: %w", err)
	}
	if _, err := t.store.GetVehicle(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("record evacuation: %w", err)
	}

	var saved *domain.EvacuationStatus
	err = withLock(ctx, t.store, zoneLockKey(zoneID), t.lockTTL, t.lockAttempts, t.lockBackoff, errZoneBusy(zoneID),
		func() error {
			var err error
			saved, err = t.apply(ctx, zone, vehicleID, count)
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("record evacuation: %w", err)
	}

	t.log.Info("status updated",
		"zone_id", zoneID,
		"vehicle_id", vehicleID,
		"count", count,
		"total", saved.TotalEvacuated,
		"remaining", saved.RemainingPeople,
		"phase", string(saved.Phase()),
	)
	return saved, nil
}

// apply runs under the zone lock.
func (t *StatusTracker) apply(ctx context.Context, zone *domain.Zone, vehicleID string, count int) (*domain.EvacuationStatus, error) {
	status, err := t.store.GetStatus(ctx, zone.ZoneID)
	if errors.Is(err, domain.ErrNotFound) {
		status = domain.NewEvacuationStatus(zone)
	} else if err != nil {
		return nil, err
	}

	if count > status.RemainingPeople {
		return nil, fmt.Errorf(
			"cannot evacuate %d from zone %q, only %d remaining: %w",
			count, zone.ZoneID, status.RemainingPeople, domain.ErrOverEvacuation,
		)
	}

	machine := newStatusMachine(zone.ZoneID, status.Phase(), t.log)
	phase, err := machine.advance(ctx, count, status.RemainingPeople)
	if err != nil {
		return nil, err
	}

	status.TotalEvacuated += count
	status.RemainingPeople -= count
	status.LastVehicleUsed = &vehicleID

	if got := status.Phase(); got != phase {
		return nil, fmt.Errorf("zone %q: counters give phase %s, state machine gives %s", zone.ZoneID, got, phase)
	}

	if err := t.store.PutStatus(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// AllStatuses returns one status per zone in load order. Zones that were never
// updated get a default status which is not persisted.
func (t *StatusTracker) AllStatuses(ctx context.Context) (_ []*domain.EvacuationStatus, err error) {
	defer obs.Time(ctx, "status.AllStatuses")(&err)

	var (
		zones    []*domain.Zone
		statuses []*domain.EvacuationStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		zones, err = t.store.ListZones(gctx)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = t.store.ListStatuses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("all statuses: %w", err)
	}

	byZone := make(map[string]*domain.EvacuationStatus, len(statuses))
	for _, st := range statuses {
		byZone[st.ZoneID] = st
	}

	out := make([]*domain.EvacuationStatus, 0, len(zones))
	for _, z := range zones {
		if st, ok := byZone[z.ZoneID]; ok {
			out = append(out, st)
			continue
		}
		out = append(out, domain.NewEvacuationStatus(z))
	}
	return out, nil
}

// ClearAll removes every zone, vehicle and status record.
func (t *StatusTracker) ClearAll(ctx context.Context) error {
	if err := t.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	t.log.Info("all evacuation data cleared")
	return nil
}

func updateResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrOverEvacuation):
		return "over_evacuation"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrZoneBusy):
		return "busy"
	default:
		return "error"
	}
}
