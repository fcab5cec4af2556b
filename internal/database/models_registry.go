package database

import "smakosz/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Publication{},
		&models.Post{},
		&models.Product{},
		&models.Comment{},
		&models.Like{},
		&models.ShoppingUser{},
	}
}
