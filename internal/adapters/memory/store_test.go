package memory

import (
	"context"
	"testing"
	"time"

	"evacuation-planner-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStoreListsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, id := range []string{"Z3", "Z1", "Z2"} {
		require.NoError(t, s.PutZone(ctx, &domain.Zone{ZoneID: id, Population: 5, Urgency: 1}))
	}
	require.NoError(t, s.PutZone(ctx, &domain.Zone{ZoneID: "Z3", Population: 7, Urgency: 4}))

	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, z := range zones {
		ids = append(ids, z.ZoneID)
	}
	require.Equal(t, []string{"Z3", "Z1", "Z2"}, ids)
	require.Equal(t, 7, zones[0].Population)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	v := "V1"
	st := &domain.EvacuationStatus{ZoneID: "Z1", TotalEvacuated: 1, RemainingPeople: 9, LastVehicleUsed: &v}
	require.NoError(t, s.PutStatus(ctx, st))

	st.RemainingPeople = 0
	v = "mutated"

	got, err := s.GetStatus(ctx, "Z1")
	require.NoError(t, err)
	require.Equal(t, 9, got.RemainingPeople)
	require.Equal(t, "V1", *got.LastVehicleUsed)
}

func TestStoreLockExpiresWithClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return now })

	ok, err := s.TryAcquireLock(ctx, "lock:vehicle:V1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.TryAcquireLock(ctx, "lock:vehicle:V1", 30*time.Second)
	require.NoError(t, err)
	require.False(t, ok)

	now = now.Add(30 * time.Second)
	ok, err = s.TryAcquireLock(ctx, "lock:vehicle:V1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.ReleaseLock(ctx, "lock:vehicle:V1"))
	require.NoError(t, s.ReleaseLock(ctx, "lock:vehicle:V1"))
}

func TestStoreClearAll(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.PutZone(ctx, &domain.Zone{ZoneID: "Z1", Population: 1, Urgency: 1}))
	require.NoError(t, s.PutVehicle(ctx, &domain.Vehicle{VehicleID: "V1", Type: "van", Capacity: 1, SpeedKmh: 1}))
	require.NoError(t, s.PutStatus(ctx, &domain.EvacuationStatus{ZoneID: "Z1", RemainingPeople: 1}))
	require.NoError(t, s.ClearAll(ctx))

	_, err := s.GetZone(ctx, "Z1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetVehicle(ctx, "V1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	statuses, err := s.ListStatuses(ctx)
	require.NoError(t, err)
	require.Empty(t, statuses)

	// Order bookkeeping restarts after a clear.
	require.NoError(t, s.PutZone(ctx, &domain.Zone{ZoneID: "Z1", Population: 1, Urgency: 1}))
	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
}
