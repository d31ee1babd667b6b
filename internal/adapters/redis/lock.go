package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/rejoice-framework/menuflow/pkg/ports"
)

// Locker serializes request handling per subscriber across instances.
// Gateways retry aggressively; without the lock two in-flight requests for
// one msisdn could interleave their session writes.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker builds a locker sharing the store's client.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// Lock acquires the subscriber's lock, polling until the context expires.
// ttl bounds how long a crashed holder can keep the key alive.
func (l *Locker) Lock(ctx context.Context, msisdn string, ttl time.Duration) (ports.UnlockFunc, error) {
	key := l.prefix + "lock:" + msisdn
	for {
		ok, err := l.client.SetNX(ctx, key, "1", ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring lock %q: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return l.client.Del(ctx, key).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}
