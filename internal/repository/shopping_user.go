package repository

import (
	"context"
	"errors"

	"smakosz/internal/models"

	"gorm.io/gorm"
)

// ShoppingUserRepository manages the per-user persisted cart record.
type ShoppingUserRepository interface {
	// GetOrCreate returns the user's cart record, lazily creating an empty
	// one on first access.
	GetOrCreate(ctx context.Context, userID uint) (*models.ShoppingUser, error)
	// SaveCart writes the serialized cart mapping back to the record.
	SaveCart(ctx context.Context, userID uint, cart string) error
}

type shoppingUserRepository struct {
	db *gorm.DB
}

// NewShoppingUserRepository creates a new ShoppingUserRepository
func NewShoppingUserRepository(db *gorm.DB) ShoppingUserRepository {
	return &shoppingUserRepository{db: db}
}

func (r *shoppingUserRepository) GetOrCreate(ctx context.Context, userID uint) (*models.ShoppingUser, error) {
	var su models.ShoppingUser
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		su = models.ShoppingUser{UserID: userID, Cart: "{}"}
		if createErr := r.db.WithContext(ctx).Create(&su).Error; createErr != nil {
			return nil, createErr
		}
		return &su, nil
	}
	if err != nil {
		return nil, err
	}
	return &su, nil
}

func (r *shoppingUserRepository) SaveCart(ctx context.Context, userID uint, cart string) error {
	return r.db.WithContext(ctx).
		Model(&models.ShoppingUser{}).
		Where("user_id = ?", userID).
		Update("cart", cart).Error
}
