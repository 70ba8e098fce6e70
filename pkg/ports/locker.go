package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes turns of one session across replicas.
// The in-process lock of session.Manager is always taken first; the distributed lock only
// matters when several processes share a StateStore.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done. The lock expires after ttl
	// if never released. The returned UnlockFunc must be called exactly once.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
