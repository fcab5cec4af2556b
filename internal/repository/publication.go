package repository

import (
	"context"

	"smakosz/internal/models"

	"gorm.io/gorm"
)

// PublicationRepository defines the interface for publication anchors.
type PublicationRepository interface {
	Create(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	// Delete removes the publication and, by cascade, its comments.
	Delete(ctx context.Context, id uint) error
}

type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository creates a new PublicationRepository
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

func (r *publicationRepository) Create(ctx context.Context, pub *models.Publication) error {
	return r.db.WithContext(ctx).Create(pub).Error
}

func (r *publicationRepository) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	var pub models.Publication
	if err := r.db.WithContext(ctx).First(&pub, id).Error; err != nil {
		return nil, err
	}
	return &pub, nil
}

func (r *publicationRepository) Delete(ctx context.Context, id uint) error {
	// Comments are soft-deleted first so engines without FK cascade behave
	// the same as the cascading schema.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Publication{}, id).Error
	})
}
