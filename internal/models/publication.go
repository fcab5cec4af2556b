package models

import "time"

// Publication is the anchor record binding a discussion thread to exactly one
// content item. It carries no data of its own; a Post or a Product points at
// it through an exclusive one-to-one reference, and comments hang off it.
type Publication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Comments []Comment `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}
