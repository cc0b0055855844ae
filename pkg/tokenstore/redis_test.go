package tokenstore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/cftools/pkg/auth"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store, err := NewRedis(context.Background(), RedisConfig{Addr: mr.Addr(), LockTTL: time.Second}, "app-1")
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, auth.ErrNoToken)

	issued := time.Unix(1700000000, 0)
	require.NoError(t, store.Save(ctx, auth.AuthToken{Value: "redis-token", IssuedAt: issued}))

	raw, err := mr.Get("cftools:token:app-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"redis-token","timestamp":1700000000}`, raw)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis-token", got.Value)
	assert.True(t, got.IssuedAt.Equal(issued))

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set("cftools:token:app-1", "not json"))

	_, err := store.Load(context.Background())
	var persistErr *auth.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "decode", persistErr.Op)
}

func TestRedisStore_Lock(t *testing.T) {
	store, mr := newTestRedisStore(t)

	unlock, err := store.Lock(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("cftools:token:app-1:lock"))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists("cftools:token:app-1:lock"))

	unlock, err = store.Lock(context.Background())
	require.NoError(t, err)
	unlock()
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(context.Background(), RedisConfig{}, "key")
	assert.Error(t, err)
}
