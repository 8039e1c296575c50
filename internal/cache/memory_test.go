package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	val, hit, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("v"), val)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()

	_, hit, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 300*time.Second))

	current = current.Add(299 * time.Second)
	_, hit, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit, "entry must survive inside the TTL")

	current = current.Add(2 * time.Second)
	_, hit, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit, "entry must expire after the TTL")
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	current = current.Add(24 * time.Hour)

	_, hit, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, store.Delete(ctx, "a", "b", "missing"))

	_, hit, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, hit)
}
