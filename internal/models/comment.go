package models

import (
	"time"

	"gorm.io/gorm"
)

// Depth bounds for threaded replies.
const (
	CommentMinLevel = 1
	CommentMaxLevel = 8
)

// GuestAuthor is the fallback display name for anonymous comment authors.
const GuestAuthor = "guest"

// Comment is one node in a threaded discussion attached to a Publication.
// Exactly one of LoggedUserID / UnloggedUser identifies the author. Active
// acts as the moderation gate: comments start pending unless the author is
// staff, and once published never return to pending.
type Comment struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	LoggedUserID *uint `gorm:"index" json:"logged_user_id,omitempty"`
	LoggedUser   *User `gorm:"foreignKey:LoggedUserID" json:"logged_user,omitempty"`
	// UnloggedUser holds the free-text guest name; cleared for logged authors.
	UnloggedUser string `json:"unlogged_user,omitempty"`
	Email        string `json:"email,omitempty"`

	PublicationID uint         `gorm:"not null;index" json:"publication_id"`
	Publication   *Publication `gorm:"foreignKey:PublicationID" json:"-"`

	// ResponseTo is nil for top-level comments. A reply always shares its
	// parent's publication and sits one level below it.
	ResponseToID *uint      `gorm:"index" json:"response_to_id,omitempty"`
	ResponseTo   *Comment   `gorm:"foreignKey:ResponseToID" json:"-"`
	Replies      []*Comment `gorm:"foreignKey:ResponseToID" json:"replies,omitempty"`

	Body   string `gorm:"type:text;not null" json:"body"`
	Active bool   `gorm:"not null;default:false;index" json:"active"`
	Level  int    `gorm:"not null;default:1" json:"level"`

	CreatedAt time.Time      `json:"pub_datetime"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthorName returns the display name for the comment author.
func (c *Comment) AuthorName() string {
	if c.LoggedUser != nil {
		return c.LoggedUser.Username
	}
	if c.UnloggedUser != "" {
		return c.UnloggedUser
	}
	return GuestAuthor
}
