package services

import (
	"context"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/ports"
	"fmt"
	"time"
)

// DefaultLockTTL is the expiry used when callers do not configure one. It only
// protects against a crashed holder; locks are always released explicitly.
const DefaultLockTTL = 30 * time.Second

func vehicleLockKey(vehicleID string) string { return "lock:vehicle:" + vehicleID }

func zoneLockKey(zoneID string) string { return "lock:zone:" + zoneID }

// withLock runs fn while holding key. Acquisition is retried up to attempts times
// with exponential backoff; when the lock stays contended busyErr is returned and
// fn is not called. The lock is released on every exit path, even when ctx has
// been cancelled in the meantime.
func withLock(
	ctx context.Context,
	locker ports.Locker,
	key string,
	ttl time.Duration,
	attempts int,
	backoff time.Duration,
	busyErr error,
	fn func() error,
) (err error) {
	if attempts < 1 {
		attempts = 1
	}

	acquired := false
	for attempt := 1; attempt <= attempts; attempt++ {
		acquired, err = locker.TryAcquireLock(ctx, key, ttl)
		if err != nil {
			return fmt.Errorf("acquire %q: %w", key, err)
		}
		if acquired || attempt == attempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	if !acquired {
		return busyErr
	}

	defer func() {
		if rerr := locker.ReleaseLock(context.WithoutCancel(ctx), key); rerr != nil && err == nil {
			err = fmt.Errorf("release %q: %w", key, rerr)
		}
	}()

	return fn()
}

// errZoneBusy wraps domain.ErrZoneBusy with the zone identity.
func errZoneBusy(zoneID string) error {
	return fmt.Errorf("zone %q: %w", zoneID, domain.ErrZoneBusy)
}

var errVehicleClaimed = errors.New("vehicle claimed by another planning run")
