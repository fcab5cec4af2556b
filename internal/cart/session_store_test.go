package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewSessionStore(rdb, "abc-123", time.Hour), mr
}

func TestSessionStoreRetrieveEmpty(t *testing.T) {
	store, _ := setupSessionStore(t)

	items, err := store.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store, mr := setupSessionStore(t)
	ctx := context.Background()

	in := Items{
		"7": {Name: "Miód lipowy", Quantity: 2, Price: 24.90},
	}
	require.NoError(t, store.Persist(ctx, in))

	// Cart lives under the session-scoped key with a TTL.
	require.True(t, mr.Exists("cart:session:abc-123"))
	assert.Greater(t, mr.TTL("cart:session:abc-123"), time.Duration(0))

	out, err := store.Retrieve(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Miód lipowy", out["7"].Name)
	assert.Equal(t, 2, out["7"].Quantity)
	assert.Equal(t, 24.90, out["7"].Price)
}

func TestSessionStoreResetDeletesKey(t *testing.T) {
	store, mr := setupSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, Items{"1": {Name: "x", Quantity: 1, Price: 1}}))
	require.True(t, mr.Exists("cart:session:abc-123"))

	require.NoError(t, store.Reset(ctx))
	assert.False(t, mr.Exists("cart:session:abc-123"))
}

func TestSessionStoresAreIsolated(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	first := NewSessionStore(rdb, "session-a", time.Hour)
	second := NewSessionStore(rdb, "session-b", time.Hour)

	require.NoError(t, first.Persist(ctx, Items{"1": {Name: "a", Quantity: 1, Price: 1}}))

	items, err := second.Retrieve(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
