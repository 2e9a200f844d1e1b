package ports

import (
	"context"
	"time"
)

// Mutual-exclusion primitive backed by the store.
type Locker interface {
	// Atomic and non-blocking: true iff the caller now holds key until ttl elapses
	// or the lock is released.
	TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Idempotent: releasing a missing or expired lock is not an error.
	ReleaseLock(ctx context.Context, key string) error
}
