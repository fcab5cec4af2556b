package cart

import (
	"context"
	"encoding/json"

	"smakosz/internal/repository"
)

// DBStore keeps an authenticated user's cart in their ShoppingUser record,
// lazily created on first access. Resetting clears the mapping but keeps the
// record.
type DBStore struct {
	shoppers repository.ShoppingUserRepository
	userID   uint
}

// NewDBStore creates a database-backed cart store for the given user.
func NewDBStore(shoppers repository.ShoppingUserRepository, userID uint) *DBStore {
	return &DBStore{shoppers: shoppers, userID: userID}
}

// Retrieve implements Store.
func (s *DBStore) Retrieve(ctx context.Context) (Items, error) {
	record, err := s.shoppers.GetOrCreate(ctx, s.userID)
	if err != nil {
		return nil, err
	}

	items := Items{}
	if record.Cart != "" {
		if err := json.Unmarshal([]byte(record.Cart), &items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Persist implements Store, serializing the full cart back to the record.
func (s *DBStore) Persist(ctx context.Context, items Items) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if _, err := s.shoppers.GetOrCreate(ctx, s.userID); err != nil {
		return err
	}
	return s.shoppers.SaveCart(ctx, s.userID, string(raw))
}

// Reset implements Store by emptying the stored mapping.
func (s *DBStore) Reset(ctx context.Context) error {
	if _, err := s.shoppers.GetOrCreate(ctx, s.userID); err != nil {
		return err
	}
	return s.shoppers.SaveCart(ctx, s.userID, "{}")
}

// Kind implements Store.
func (s *DBStore) Kind() string {
	return "database"
}
