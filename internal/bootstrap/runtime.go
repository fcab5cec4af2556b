// Package bootstrap wires up the process-level runtime: database, Redis and
// the optional development superuser.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"smakosz/internal/cache"
	"smakosz/internal/config"
	"smakosz/internal/database"
	"smakosz/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis and ensures the optional
// development superuser exists. Redis may come back nil if unreachable;
// callers degrade to fail-open behavior where they can.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevSuperuser(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development superuser: %w", err)
	}

	return db, r, nil
}

// ensureDevSuperuser creates or promotes the configured root account.
// Development profile only; production never runs this path.
func ensureDevSuperuser(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "smakosz_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@smakosz.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return errors.New("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("email = ?", email).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				Username:    username,
				Email:       email,
				Password:    string(hashed),
				IsStaff:     true,
				IsSuperuser: true,
			}
			return tx.Create(&root).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&models.User{}).
				Where("id = ?", root.ID).
				Updates(map[string]any{"is_staff": true, "is_superuser": true}).Error
		}
	}); err != nil {
		return err
	}

	log.Printf("development superuser ensured (%s)", email)
	return nil
}
