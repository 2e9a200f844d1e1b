package services

import (
	"cmp"
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/geo"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/platform/metrics"
	"evacuation-planner-service/internal/platform/obs"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	strategyBestFit = "best_fit"
	strategyLargest = "largest"
)

// Allocator matches vehicles to zones for a single planning run.
//
// Zones are served by urgency, highest first. For each zone the smallest vehicle
// that can move everyone remaining in one trip is preferred (nearest first on
// ties); when none can, the largest vehicle is used to make partial progress.
// Every vehicle is used at most once per run. The result is a heuristic and makes
// no claim of minimal distance or full coverage.
type Allocator struct {
	store   ports.EvacuationStore
	lockTTL time.Duration
	log     log.Logger
}

func NewAllocator(store ports.EvacuationStore, lockTTL time.Duration, logger log.Logger) *Allocator {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Allocator{store: store, lockTTL: lockTTL, log: logger}
}

type snapshot struct {
	zones    []*domain.Zone
	vehicles []*domain.Vehicle
	statuses []*domain.EvacuationStatus
}

// candidate is a pooled vehicle with its distance to the zone being served.
type candidate struct {
	vehicle    *domain.Vehicle
	distanceKm float64
}

// GeneratePlan computes vehicle assignments from the current store snapshot.
// The plan is returned to the caller and not persisted.
func (a *Allocator) GeneratePlan(ctx context.Context) (_ []domain.PlanEntry, err error) {
	defer obs.Time(ctx, "allocator.GeneratePlan")(&err)
	start := time.Now()

	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if len(snap.zones) == 0 {
		return nil, fmt.Errorf("generate plan: %w", domain.ErrNoZones)
	}
	if len(snap.vehicles) == 0 {
		return nil, fmt.Errorf("generate plan: %w", domain.ErrNoVehicles)
	}

	remainingByZone := make(map[string]int, len(snap.statuses))
	for _, st := range snap.statuses {
		remainingByZone[st.ZoneID] = st.RemainingPeople
	}

	// Stable: zones with equal urgency keep their load order.
	zones := slices.Clone(snap.zones)
	slices.SortStableFunc(zones, func(x, y *domain.Zone) int {
		return cmp.Compare(y.Urgency, x.Urgency)
	})

	pool := slices.Clone(snap.vehicles)
	plan := make([]domain.PlanEntry, 0, len(pool))

	for _, zone := range zones {
		remaining, ok := remainingByZone[zone.ZoneID]
		if !ok {
			remaining = zone.Population
		}
		if remaining <= 0 {
			a.log.Debug("zone already evacuated, skipping", "zone_id", zone.ZoneID)
			continue
		}

		for remaining > 0 && len(pool) > 0 {
			c, strategy, found := selectVehicle(pool, zone, remaining)
			if !found {
				break
			}

			entry, acquired, err := a.assign(ctx, zone, c, remaining)
			if err != nil {
				return nil, fmt.Errorf("generate plan: zone %q: %w", zone.ZoneID, err)
			}

			// Whether committed or claimed elsewhere, the vehicle leaves this run's pool.
			pool = removeVehicle(pool, c.vehicle.VehicleID)

			if !acquired {
				metrics.VehicleLockContention.Inc()
				a.log.Warn("vehicle locked, skipping", "vehicle_id", c.vehicle.VehicleID, "zone_id", zone.ZoneID)
				continue
			}

			plan = append(plan, entry)
			remaining -= entry.People
			metrics.Assignments.WithLabelValues(strategy).Inc()

			a.log.Info("vehicle assigned",
				"vehicle_id", entry.VehicleID,
				"zone_id", entry.ZoneID,
				"distance_km", fmt.Sprintf("%.2f", entry.DistanceKm),
				"eta_min", entry.ETAMinutes,
				"people", entry.People,
				"strategy", strategy,
			)
		}

		if remaining > 0 {
			metrics.UnservedZones.Inc()
			a.log.Warn("zone not fully served",
				"zone_id", zone.ZoneID,
				"remaining", remaining,
				"urgency", zone.Urgency,
			)
		}
	}

	metrics.PlansGenerated.Inc()
	metrics.PlanDuration.Observe(time.Since(start).Seconds())
	a.log.Info("plan complete", "assignments", len(plan), "zones", len(zones), "vehicles", len(snap.vehicles))

	return plan, nil
}

// loadSnapshot reads the three collections concurrently. The reads are not locked;
// two runs may see the same vehicle as available and only the vehicle lock decides.
func (a *Allocator) loadSnapshot(ctx context.Context) (*snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.zones, err = a.store.ListZones(gctx)
		if err != nil {
			return fmt.Errorf("list zones: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		snap.vehicles, err = a.store.ListVehicles(gctx)
		if err != nil {
			return fmt.Errorf("list vehicles: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		snap.statuses, err = a.store.ListStatuses(gctx)
		if err != nil {
			return fmt.Errorf("list statuses: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// assign commits c to zone while holding the vehicle lock. acquired is false when
// another run holds the lock; that is not an error. Acquisition is tried once.
func (a *Allocator) assign(
	ctx context.Context,
	zone *domain.Zone,
	c candidate,
	remaining int,
) (entry domain.PlanEntry, acquired bool, err error) {
	key := vehicleLockKey(c.vehicle.VehicleID)

	err = withLock(ctx, a.store, key, a.lockTTL, 1, 0, errVehicleClaimed, func() error {
		entry = domain.PlanEntry{
			ZoneID:     zone.ZoneID,
			VehicleID:  c.vehicle.VehicleID,
			ETAMinutes: geo.TravelMinutes(c.distanceKm, c.vehicle.SpeedKmh),
			People:     min(remaining, c.vehicle.Capacity),
			DistanceKm: c.distanceKm,
		}
		return nil
	})
	if errors.Is(err, errVehicleClaimed) {
		return domain.PlanEntry{}, false, nil
	}
	if err != nil {
		return domain.PlanEntry{}, false, fmt.Errorf("vehicle %q: %w", c.vehicle.VehicleID, err)
	}
	return entry, true, nil
}

// selectVehicle picks the best-fit vehicle for remaining people, falling back to
// the largest one. Ties on capacity go to the nearest vehicle, then to pool order.
func selectVehicle(pool []*domain.Vehicle, zone *domain.Zone, remaining int) (candidate, string, bool) {
	var (
		bestFit, largest       candidate
		hasBestFit, hasLargest bool
	)

	for _, v := range pool {
		c := candidate{vehicle: v, distanceKm: geo.DistanceKm(v.Location, zone.Location)}

		if v.Capacity >= remaining {
			if !hasBestFit ||
				v.Capacity < bestFit.vehicle.Capacity ||
				(v.Capacity == bestFit.vehicle.Capacity && c.distanceKm < bestFit.distanceKm) {
				bestFit, hasBestFit = c, true
			}
		}

		if !hasLargest ||
			v.Capacity > largest.vehicle.Capacity ||
			(v.Capacity == largest.vehicle.Capacity && c.distanceKm < largest.distanceKm) {
			largest, hasLargest = c, true
		}
	}

	if hasBestFit {
		return bestFit, strategyBestFit, true
	}
	if hasLargest {
		return largest, strategyLargest, true
	}
	return candidate{}, "", false
}

func removeVehicle(pool []*domain.Vehicle, vehicleID string) []*domain.Vehicle {
	return slices.DeleteFunc(pool, func(v *domain.Vehicle) bool {
		return v.VehicleID == vehicleID
	})
}
