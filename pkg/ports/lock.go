package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes request handling per subscriber. With a shared session
// backend and more than one engine instance, two in-flight requests for one
// msisdn could otherwise interleave their session writes.
type Locker interface {
	// Lock acquires the subscriber's lock, blocking until it is free or
	// the context expires. ttl bounds how long a crashed holder can keep
	// the lock alive.
	Lock(ctx context.Context, msisdn string, ttl time.Duration) (UnlockFunc, error)
}
