package cart

import (
	"context"
	"testing"

	"smakosz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the cart in memory for engine tests.
type memStore struct {
	items Items
}

func newMemStore() *memStore {
	return &memStore{items: Items{}}
}

func (s *memStore) Retrieve(_ context.Context) (Items, error) {
	out := Items{}
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Persist(_ context.Context, items Items) error {
	s.items = items
	return nil
}

func (s *memStore) Reset(_ context.Context) error {
	s.items = Items{}
	return nil
}

func (s *memStore) Kind() string { return "memory" }

// stubCatalog resolves a fixed set of products.
type stubCatalog struct {
	prices map[string]float64
}

func (c *stubCatalog) Snapshot(_ context.Context, itemID, kind string) (string, float64, error) {
	if kind != models.ProductKind {
		return "", 0, models.NewInvalidArgumentError("Unsupported model")
	}
	price, ok := c.prices[itemID]
	if !ok {
		return "", 0, models.NewNotFoundError("Product", itemID)
	}
	return "product-" + itemID, price, nil
}

func newTestEngine() *Engine {
	return New(newMemStore(), &stubCatalog{prices: map[string]float64{
		"1": 10.50,
		"2": 3.25,
	}})
}

func TestEngineAdd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds a line with snapshotted name and price", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 2))

		lines, err := e.Lines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "product-1", lines[0].Name)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, 10.50, lines[0].Price)
	})

	t.Run("merges quantity on repeat add", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 2))
		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 3))

		length, err := e.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, length)

		lines, err := e.Lines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		err := e.Add(ctx, "1", models.ProductKind, 0)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeInvalidArgument, appErr.Code)
	})

	t.Run("rejects unsupported kind", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		err := e.Add(ctx, "1", "Recipe", 1)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeInvalidArgument, appErr.Code)
		assert.Equal(t, "Unsupported model", appErr.Message)
	})

	t.Run("rejects absent catalog item", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		err := e.Add(ctx, "99", models.ProductKind, 1)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestEngineUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("overwrites quantity", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()
		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 5))

		require.NoError(t, e.Update(ctx, "1", models.ProductKind, 2))

		length, err := e.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, length)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()
		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 5))

		require.NoError(t, e.Update(ctx, "1", models.ProductKind, 0))

		lines, err := e.Lines(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("negative quantity is invalid", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()
		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 5))

		err := e.Update(ctx, "1", models.ProductKind, -1)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeInvalidArgument, appErr.Code)
	})

	t.Run("absent line is not found", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		err := e.Update(ctx, "2", models.ProductKind, 3)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestEngineDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes only the targeted line", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()
		require.NoError(t, e.Add(ctx, "1", models.ProductKind, 1))
		require.NoError(t, e.Add(ctx, "2", models.ProductKind, 1))

		require.NoError(t, e.Delete(ctx, "1", models.ProductKind))

		lines, err := e.Lines(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "2", lines[0].ItemID)
	})

	t.Run("absent line is not found", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine()

		err := e.Delete(ctx, "1", models.ProductKind)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestEngineTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newTestEngine()

	total, err := e.TotalPrice(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, e.Add(ctx, "1", models.ProductKind, 2)) // 21.00
	require.NoError(t, e.Add(ctx, "2", models.ProductKind, 4)) // 13.00

	total, err = e.TotalPrice(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 34.00, total, 0.0001)

	length, err := e.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, length)
}

func TestEngineReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newTestEngine()
	require.NoError(t, e.Add(ctx, "1", models.ProductKind, 2))

	require.NoError(t, e.Reset(ctx))

	length, err := e.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}

// Lines re-reads the store, so a second call observes mutations made after
// the first.
func TestEngineLinesObserveMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newTestEngine()
	require.NoError(t, e.Add(ctx, "1", models.ProductKind, 1))

	first, err := e.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, e.Add(ctx, "2", models.ProductKind, 1))

	second, err := e.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
