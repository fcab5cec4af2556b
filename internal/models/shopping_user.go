package models

import "time"

// ShoppingUser is the per-user cart record for authenticated visitors. The
// serialized cart mapping mirrors the shape kept in the session for guests:
//
//	{"<item_id>": {"name": str, "quantity": int, "price": float}, ...}
//
// Resetting the cart clears the mapping but keeps the row.
type ShoppingUser struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Cart   string `gorm:"type:jsonb;not null;default:'{}'" json:"cart"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
