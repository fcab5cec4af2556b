package cart

import (
	"context"
	"testing"

	"smakosz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubShopperRepo records cart writes in memory.
type stubShopperRepo struct {
	records map[uint]*models.ShoppingUser
	creates int
}

func newStubShopperRepo() *stubShopperRepo {
	return &stubShopperRepo{records: map[uint]*models.ShoppingUser{}}
}

func (r *stubShopperRepo) GetOrCreate(_ context.Context, userID uint) (*models.ShoppingUser, error) {
	if record, ok := r.records[userID]; ok {
		return record, nil
	}
	r.creates++
	record := &models.ShoppingUser{UserID: userID, Cart: "{}"}
	r.records[userID] = record
	return record, nil
}

func (r *stubShopperRepo) SaveCart(_ context.Context, userID uint, cart string) error {
	r.records[userID].Cart = cart
	return nil
}

func TestDBStoreLazyCreate(t *testing.T) {
	repo := newStubShopperRepo()
	store := NewDBStore(repo, 42)

	items, err := store.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, repo.creates)

	// Second read reuses the record.
	_, err = store.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
}

func TestDBStoreRoundTrip(t *testing.T) {
	repo := newStubShopperRepo()
	store := NewDBStore(repo, 42)
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, Items{
		"3": {Name: "Sok malinowy", Quantity: 1, Price: 12.50},
	}))

	out, err := store.Retrieve(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Sok malinowy", out["3"].Name)
}

// Reset empties the stored mapping but the record itself survives.
func TestDBStoreResetKeepsRecord(t *testing.T) {
	repo := newStubShopperRepo()
	store := NewDBStore(repo, 42)
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, Items{"1": {Name: "x", Quantity: 2, Price: 1}}))
	require.NoError(t, store.Reset(ctx))

	record, ok := repo.records[42]
	require.True(t, ok)
	assert.Equal(t, "{}", record.Cart)

	items, err := store.Retrieve(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
