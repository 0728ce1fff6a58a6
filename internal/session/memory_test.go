package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Nil(t, got, "absent key should return nil session")

	s := New("15551234567", time.Now())
	require.NoError(t, store.Put(ctx, s))

	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StateServiceType, got.State)

	require.NoError(t, store.Delete(ctx, "15551234567"))
	got, err = store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New("15551234567", time.Now())
	require.NoError(t, store.Put(ctx, s))

	first, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	first.State = StateConfirm

	second, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateServiceType, second.State, "mutating a returned session must not affect the store")
}

func TestMemoryStoreLastWriterWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New("15551234567", time.Now())
	s.State = StateBedrooms
	require.NoError(t, store.Put(ctx, s))

	replacement := New("15551234567", time.Now())
	require.NoError(t, store.Put(ctx, replacement))

	got, err := store.Get(ctx, "15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateServiceType, got.State)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	stale := New("15550000001", now.Add(-2*time.Hour))
	stale.State = StateAddress // mid-flow sessions are evicted too
	fresh := New("15550000002", now)
	require.NoError(t, store.Put(ctx, stale))
	require.NoError(t, store.Put(ctx, fresh))

	count, err := store.Sweep(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Get(ctx, "15550000001")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(ctx, "15550000002")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("1555000%04d", n)
			s := New(key, time.Now())
			_ = store.Put(ctx, s)
			_, _ = store.Get(ctx, key)
			if n%2 == 0 {
				_ = store.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}
