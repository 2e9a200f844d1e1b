package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"sync"
	"testing"
	"time"
)

func TestGeneratePlanServesByUrgency(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{
			zone("Z2", 13.70, 100.50, 50, 3),
			zone("Z1", 13.80, 100.60, 30, 5),
		},
		[]*domain.Vehicle{
			vehicle("V2", 20, 60, 13.80, 100.50),
			vehicle("V1", 40, 60, 13.80, 100.60),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan) != 2 {
		t.Fatalf("expected 2 assignments, got %d: %+v", len(plan), plan)
	}

	first := plan[0]
	if first.ZoneID != "Z1" || first.VehicleID != "V1" {
		t.Fatalf("first assignment = %s/%s, want Z1/V1", first.ZoneID, first.VehicleID)
	}
	if first.People != 30 {
		t.Fatalf("first people = %d, want 30", first.People)
	}
	if first.ETAMinutes != 0 {
		t.Fatalf("first eta = %d, want 0 for a co-located vehicle", first.ETAMinutes)
	}

	second := plan[1]
	if second.ZoneID != "Z2" || second.VehicleID != "V2" {
		t.Fatalf("second assignment = %s/%s, want Z2/V2", second.ZoneID, second.VehicleID)
	}
	if second.People != 20 {
		t.Fatalf("second people = %d, want 20", second.People)
	}
	// 0.1 degree of latitude is ~11.12 km, at 60 km/h that is 11.12 minutes.
	if second.ETAMinutes != 12 {
		t.Fatalf("second eta = %d, want 12", second.ETAMinutes)
	}
}

func TestGeneratePlanPrefersSmallestSufficientVehicle(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 25, 3)},
		[]*domain.Vehicle{
			vehicle("BIG", 100, 60, 0, 0),
			vehicle("FIT", 30, 60, 0.5, 0),
			vehicle("SMALL", 10, 60, 0, 0),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(plan))
	}
	if plan[0].VehicleID != "FIT" {
		t.Fatalf("vehicle = %s, want FIT", plan[0].VehicleID)
	}
	if plan[0].People != 25 {
		t.Fatalf("people = %d, want 25", plan[0].People)
	}
}

func TestGeneratePlanBreaksCapacityTiesByDistance(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
		[]*domain.Vehicle{
			vehicle("FAR", 20, 60, 1, 0),
			vehicle("NEAR", 20, 60, 0.1, 0),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 || plan[0].VehicleID != "NEAR" {
		t.Fatalf("plan = %+v, want single NEAR assignment", plan)
	}
}

func TestGeneratePlanFallsBackToLargestVehicles(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 100, 4)},
		[]*domain.Vehicle{
			vehicle("V10", 10, 60, 0, 0),
			vehicle("V40", 40, 60, 0, 0),
			vehicle("V30", 30, 60, 0, 0),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		vehicle string
		people  int
	}{
		{"V40", 40},
		{"V30", 30},
		{"V10", 10},
	}
	if len(plan) != len(want) {
		t.Fatalf("expected %d assignments, got %d: %+v", len(want), len(plan), plan)
	}
	for i, w := range want {
		if plan[i].VehicleID != w.vehicle || plan[i].People != w.people {
			t.Fatalf("assignment %d = %s/%d, want %s/%d", i, plan[i].VehicleID, plan[i].People, w.vehicle, w.people)
		}
	}
}

func TestGeneratePlanSwitchesToBestFitForRemainder(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 55, 4)},
		[]*domain.Vehicle{
			vehicle("V50", 50, 60, 0, 0),
			vehicle("V8", 8, 60, 0, 0),
			vehicle("V5", 5, 60, 0, 0),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("expected 2 assignments, got %d: %+v", len(plan), plan)
	}
	if plan[0].VehicleID != "V50" || plan[1].VehicleID != "V5" {
		t.Fatalf("vehicles = %s,%s, want V50,V5", plan[0].VehicleID, plan[1].VehicleID)
	}
}

func TestGeneratePlanKeepsLoadOrderForEqualUrgency(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{
			zone("A", 0, 0, 10, 2),
			zone("B", 0, 0, 10, 2),
		},
		[]*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 || plan[0].ZoneID != "A" {
		t.Fatalf("plan = %+v, want single assignment to A", plan)
	}
}

func TestGeneratePlanUsesStoredProgress(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		[]*domain.Zone{
			zone("DONE", 0, 0, 20, 5),
			zone("HALF", 0, 0, 50, 4),
		},
		[]*domain.Vehicle{
			vehicle("V60", 60, 60, 0, 0),
			vehicle("V10", 10, 60, 0, 0),
		},
	)

	last := "OLD"
	if err := store.PutStatus(ctx, &domain.EvacuationStatus{ZoneID: "DONE", TotalEvacuated: 20, LastVehicleUsed: &last}); err != nil {
		t.Fatalf("put status: %v", err)
	}
	if err := store.PutStatus(ctx, &domain.EvacuationStatus{ZoneID: "HALF", TotalEvacuated: 40, RemainingPeople: 10, LastVehicleUsed: &last}); err != nil {
		t.Fatalf("put status: %v", err)
	}

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 assignment, got %d: %+v", len(plan), plan)
	}
	if plan[0].ZoneID != "HALF" || plan[0].VehicleID != "V10" || plan[0].People != 10 {
		t.Fatalf("assignment = %+v, want HALF/V10 with 10 people", plan[0])
	}
}

func TestGeneratePlanUsesEachVehicleOnce(t *testing.T) {
	store := seedStore(t,
		[]*domain.Zone{
			zone("Z1", 0, 0, 300, 5),
			zone("Z2", 1, 1, 200, 4),
			zone("Z3", 2, 2, 5, 1),
		},
		[]*domain.Vehicle{
			vehicle("V1", 50, 40, 0, 0),
			vehicle("V2", 60, 40, 1, 1),
			vehicle("V3", 70, 40, 2, 2),
			vehicle("V4", 5, 40, 2, 2),
		},
	)

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	perZone := make(map[string]int)
	for _, e := range plan {
		if seen[e.VehicleID] {
			t.Fatalf("vehicle %s used twice", e.VehicleID)
		}
		seen[e.VehicleID] = true
		perZone[e.ZoneID] += e.People
	}
	if len(seen) != 4 {
		t.Fatalf("expected all 4 vehicles used, got %d", len(seen))
	}
	if perZone["Z1"] > 300 || perZone["Z2"] > 200 || perZone["Z3"] > 5 {
		t.Fatalf("zone over-assigned: %v", perZone)
	}
}

func TestGeneratePlanSkipsLockedVehicle(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
		[]*domain.Vehicle{
			vehicle("FIT", 10, 60, 0, 0),
			vehicle("SPARE", 50, 60, 0, 0),
		},
	)

	ok, err := store.TryAcquireLock(ctx, vehicleLockKey("FIT"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("pre-acquire: ok=%v err=%v", ok, err)
	}

	plan, err := NewAllocator(store, 0, nil).GeneratePlan(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 || plan[0].VehicleID != "SPARE" {
		t.Fatalf("plan = %+v, want single SPARE assignment", plan)
	}

	// The foreign lock is left alone.
	ok, err = store.TryAcquireLock(ctx, vehicleLockKey("FIT"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected FIT lock to still be held")
	}
}

func TestGeneratePlanReleasesVehicleLocks(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
		[]*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
	)

	if _, err := NewAllocator(store, 0, nil).GeneratePlan(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := store.TryAcquireLock(ctx, vehicleLockKey("V1"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected V1 lock to be free after planning: ok=%v err=%v", ok, err)
	}
}

func TestGeneratePlanConcurrentRunsShareNoVehicle(t *testing.T) {
	store := newGatedStore(seedStore(t,
		[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
		[]*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
	))
	alloc := NewAllocator(store, 0, nil)

	var (
		wg    sync.WaitGroup
		plans [2][]domain.PlanEntry
		errs  [2]error
	)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plans[i], errs[i] = alloc.GeneratePlan(context.Background())
		}()
	}
	wg.Wait()

	total := 0
	for i := range 2 {
		if errs[i] != nil {
			t.Fatalf("run %d: unexpected error: %v", i, errs[i])
		}
		total += len(plans[i])
	}
	if total != 1 {
		t.Fatalf("expected V1 in exactly one plan, got %d assignments: %+v", total, plans)
	}
}

func TestGeneratePlanRequiresZonesAndVehicles(t *testing.T) {
	tests := []struct {
		name     string
		zones    []*domain.Zone
		vehicles []*domain.Vehicle
		want     error
	}{
		{
			name:     "no zones",
			vehicles: []*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
			want:     domain.ErrNoZones,
		},
		{
			name:  "no vehicles",
			zones: []*domain.Zone{zone("Z1", 0, 0, 10, 3)},
			want:  domain.ErrNoVehicles,
		},
		{
			name: "empty store",
			want: domain.ErrNoZones,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedStore(t, tt.zones, tt.vehicles)
			_, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGeneratePlanSurfacesStoreErrors(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		store := &failingStore{
			Store: seedStore(t,
				[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
				[]*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
			),
			listVehiclesErr: errStoreDown,
		}
		_, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
		if !errors.Is(err, errStoreDown) {
			t.Fatalf("err = %v, want %v", err, errStoreDown)
		}
	})

	t.Run("release", func(t *testing.T) {
		store := &failingStore{
			Store: seedStore(t,
				[]*domain.Zone{zone("Z1", 0, 0, 10, 3)},
				[]*domain.Vehicle{vehicle("V1", 10, 60, 0, 0)},
			),
			releaseErr: errStoreDown,
		}
		plan, err := NewAllocator(store, 0, nil).GeneratePlan(context.Background())
		if !errors.Is(err, errStoreDown) {
			t.Fatalf("err = %v, want %v", err, errStoreDown)
		}
		if plan != nil {
			t.Fatalf("expected no plan on failure, got %+v", plan)
		}
	})
}
