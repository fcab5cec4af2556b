package repository

import (
	"context"

	"smakosz/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// ListTopLevel returns active comments without a parent, newest first.
	ListTopLevel(ctx context.Context, publicationID uint) ([]*models.Comment, error)
	// ListReplies returns the direct children of a comment, any moderation state.
	ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error)
	// ListRecentByOwnerKind returns the newest active comments whose
	// publication is owned by the given catalog table ("posts" or "products").
	ListRecentByOwnerKind(ctx context.Context, ownerTable string, limit int) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("LoggedUser").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, publicationID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("LoggedUser").
		Where("publication_id = ?", publicationID).
		Where("response_to_id IS NULL").
		Where("active = ?", true).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("response_to_id = ?", commentID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListRecentByOwnerKind(ctx context.Context, ownerTable string, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	sub := r.db.Table(ownerTable).
		Select("publication_id").
		Where("publication_id IS NOT NULL").
		Where("deleted_at IS NULL")
	err := r.db.WithContext(ctx).
		Preload("LoggedUser").
		Where("publication_id IN (?)", sub).
		Where("active = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
