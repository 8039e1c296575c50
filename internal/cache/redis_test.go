package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	val, hit, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("v"), val)
}

func TestRedisStoreMissIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t)

	_, hit, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 300*time.Second))

	mr.FastForward(299 * time.Second)
	_, hit, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)

	mr.FastForward(2 * time.Second)
	_, hit, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, store.Delete(ctx, "a", "b"))
	require.NoError(t, store.Delete(ctx), "deleting nothing is a no-op")

	_, hit, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, hit)
}
