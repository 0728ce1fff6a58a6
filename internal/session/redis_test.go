package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Nil(t, got)

	s := New("15551234567", time.Now().UTC())
	s.State = StateBedrooms
	s.Draft.EstimateFromBedrooms(3)
	require.NoError(t, store.Put(ctx, s))

	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StateBedrooms, got.State)
	assert.Equal(t, 3, got.Draft.Bedrooms)
	assert.Equal(t, 2, got.Draft.Bathrooms)

	require.NoError(t, store.Delete(ctx, "15551234567"))
	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	s := New("15551234567", time.Now().UTC())
	require.NoError(t, store.Put(ctx, s))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Nil(t, got, "session should expire with the key TTL")
}

func TestRedisStorePutRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	s := New("15551234567", time.Now().UTC())
	require.NoError(t, store.Put(ctx, s))

	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Put(ctx, s))
	mr.FastForward(45 * time.Second)

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.NotNil(t, got, "Put should have reset the idle TTL")
}

func TestRedisStoreDeleteAbsentKey(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	assert.NoError(t, store.Delete(context.Background(), "10000000000"))
}
