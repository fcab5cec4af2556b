package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductKind is the cart discriminator value for shop products. The cart's
// `kind` field is an open discriminator; products are the only catalog entity
// it currently resolves.
const ProductKind = "Product"

// Product represents a shop catalog item.
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	ImageURL    string  `json:"image_url"`
	Available   bool    `gorm:"not null;default:true" json:"available"`

	// PublicationID anchors the product's discussion thread, created on first
	// save without one and deleted together with the product.
	PublicationID *uint        `gorm:"uniqueIndex" json:"publication_id,omitempty"`
	Publication   *Publication `gorm:"foreignKey:PublicationID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
