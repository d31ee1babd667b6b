package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/internal/adapters/redis"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/ports/tests"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return mr, redis.NewFromClient(client, opts...)
}

func TestStore_Contract(t *testing.T) {
	_, store := newTestStore(t)
	tests.SessionStoreContract(t, store)
}

func TestStore_TTLExpiry(t *testing.T) {
	mr, store := newTestStore(t, redis.WithTTL(2*time.Minute))
	ctx := context.Background()

	state := domain.NewSessionState(time.Now())
	state.CurrentMenu = "enterAmount"
	require.NoError(t, store.Save(ctx, "233541234567", state))

	mr.FastForward(3 * time.Minute)

	_, err := store.Load(ctx, "233541234567")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_PrefixIsolation(t *testing.T) {
	mr, store := newTestStore(t, redis.WithPrefix("flows:a:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "233541234567", domain.NewSessionState(time.Now())))
	assert.True(t, mr.Exists("flows:a:233541234567"))
}
