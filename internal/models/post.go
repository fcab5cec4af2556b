package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog-style review in the Smakosz application.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Body     string `gorm:"type:text;not null" json:"body"`
	ImageURL string `json:"image_url"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`

	// PublicationID is the exclusive one-to-one discussion anchor, created
	// the first time the post is saved without one.
	PublicationID *uint        `gorm:"uniqueIndex" json:"publication_id,omitempty"`
	Publication   *Publication `gorm:"foreignKey:PublicationID" json:"-"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
