package seed

import (
	"fmt"
	"os"

	"smakosz/internal/models"
	"smakosz/internal/slug"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFixture is one catalog entry in a fixture file.
type ProductFixture struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	ImageURL    string  `yaml:"image_url"`
	Available   *bool   `yaml:"available"`
}

type fixtureFile struct {
	Products []ProductFixture `yaml:"products"`
}

// LoadProductFixtures reads a YAML fixture file and upserts its products by
// slug so re-running the seeder converges instead of duplicating rows.
func LoadProductFixtures(db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture file: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse fixture file: %w", err)
	}

	for _, fx := range file.Products {
		if err := upsertProductFixture(db, fx); err != nil {
			return fmt.Errorf("seed product %q: %w", fx.Name, err)
		}
	}
	return nil
}

func upsertProductFixture(db *gorm.DB, fx ProductFixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		available := true
		if fx.Available != nil {
			available = *fx.Available
		}

		product := models.Product{
			Name:        fx.Name,
			Slug:        slug.Make(fx.Name),
			Description: fx.Description,
			Price:       fx.Price,
			ImageURL:    fx.ImageURL,
			Available:   available,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price", "image_url", "available", "updated_at"}),
		}).Create(&product).Error; err != nil {
			return err
		}

		if product.ID == 0 {
			if err := tx.Where("slug = ?", product.Slug).First(&product).Error; err != nil {
				return err
			}
		}

		// Attach the discussion anchor on first insert only.
		if product.PublicationID == nil {
			pub := models.Publication{}
			if err := tx.Create(&pub).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("publication_id", pub.ID).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
