// Package cart implements the per-visitor shopping cart: one engine with two
// interchangeable persistence strategies (guest session vs. user record),
// selected at request entry by authentication state.
package cart

import (
	"context"
	"sort"

	"smakosz/internal/models"
	"smakosz/internal/observability"
)

// Line is one cart entry. Name and Price are snapshotted from the catalog at
// add time and never re-synced with later catalog changes.
type Line struct {
	ItemID   string  `json:"-"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Items is the serialized cart shape, keyed by catalog item ID.
type Items map[string]Line

// Store persists a visitor's cart. Implementations must return an empty
// mapping (not an error) when no cart exists yet.
type Store interface {
	Retrieve(ctx context.Context) (Items, error)
	Persist(ctx context.Context, items Items) error
	Reset(ctx context.Context) error
	// Kind labels the backing strategy for metrics ("session" or "database").
	Kind() string
}

// Catalog resolves a cart item reference to its catalog entity, returning the
// display name and current price to snapshot. An unsupported kind fails with
// an invalid-argument error, an absent entity with a not-found error.
type Catalog interface {
	Snapshot(ctx context.Context, itemID, kind string) (name string, price float64, err error)
}

// Engine provides the cart operations over a Store and a Catalog. Observable
// behavior is identical for either store.
type Engine struct {
	store   Store
	catalog Catalog
}

// New creates a cart engine over the given store and catalog.
func New(store Store, catalog Catalog) *Engine {
	return &Engine{store: store, catalog: catalog}
}

// Add inserts quantity units of the referenced catalog entity, merging with
// an existing line for the same item.
func (e *Engine) Add(ctx context.Context, itemID, kind string, quantity int) error {
	if quantity < 1 {
		return models.NewInvalidArgumentError("Quantity must be positive")
	}

	name, price, err := e.catalog.Snapshot(ctx, itemID, kind)
	if err != nil {
		return err
	}

	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return err
	}

	if line, ok := items[itemID]; ok {
		line.Quantity += quantity
		items[itemID] = line
	} else {
		items[itemID] = Line{Name: name, Quantity: quantity, Price: price}
	}

	observability.CartOperations.WithLabelValues("add", e.store.Kind()).Inc()
	return e.store.Persist(ctx, items)
}

// Update overwrites the line's quantity. Zero removes the line; negative
// values are rejected.
func (e *Engine) Update(ctx context.Context, itemID, kind string, quantity int) error {
	if quantity < 0 {
		return models.NewInvalidArgumentError("Quantity must not be negative")
	}
	if quantity == 0 {
		return e.Delete(ctx, itemID, kind)
	}

	if _, _, err := e.catalog.Snapshot(ctx, itemID, kind); err != nil {
		return err
	}

	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return err
	}

	line, ok := items[itemID]
	if !ok {
		return models.NewNotFoundError("Cart item", itemID)
	}
	line.Quantity = quantity
	items[itemID] = line

	observability.CartOperations.WithLabelValues("update", e.store.Kind()).Inc()
	return e.store.Persist(ctx, items)
}

// Delete removes the line for the item.
func (e *Engine) Delete(ctx context.Context, itemID, kind string) error {
	if _, _, err := e.catalog.Snapshot(ctx, itemID, kind); err != nil {
		return err
	}

	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return err
	}

	if _, ok := items[itemID]; !ok {
		return models.NewNotFoundError("Cart item", itemID)
	}
	delete(items, itemID)

	observability.CartOperations.WithLabelValues("delete", e.store.Kind()).Inc()
	return e.store.Persist(ctx, items)
}

// Reset empties the entire cart.
func (e *Engine) Reset(ctx context.Context) error {
	observability.CartOperations.WithLabelValues("reset", e.store.Kind()).Inc()
	return e.store.Reset(ctx)
}

// Lines re-reads the current cart state and returns its lines ordered by
// item ID. Calling it again observes later mutations, not a snapshot.
func (e *Engine) Lines(ctx context.Context) ([]Line, error) {
	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(items))
	for id, line := range items {
		line.ItemID = id
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines, nil
}

// TotalPrice sums price*quantity over all lines; 0 for an empty cart.
func (e *Engine) TotalPrice(ctx context.Context) (float64, error) {
	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, line := range items {
		total += line.Price * float64(line.Quantity)
	}
	return total, nil
}

// Len sums the quantities across all lines, not the count of distinct lines.
func (e *Engine) Len(ctx context.Context) (int, error) {
	items, err := e.store.Retrieve(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	for _, line := range items {
		n += line.Quantity
	}
	return n, nil
}
