// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Smakosz application.
// Staff accounts moderate comments; superusers additionally manage the catalog.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	IsStaff     bool           `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// CanModerate reports whether the user may publish, edit or delete any comment.
func (u *User) CanModerate() bool {
	return u.IsStaff || u.IsSuperuser
}
