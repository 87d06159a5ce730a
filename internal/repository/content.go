package repository

import (
	"context"

	"brainvault/internal/models"

	"gorm.io/gorm"
)

// ContentRepository defines owner-scoped persistence for content items.
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	ListByUser(ctx context.Context, userID uint) ([]models.Content, error)
	// DeleteByUserAndID reports whether a row owned by userID was removed.
	DeleteByUserAndID(ctx context.Context, userID, contentID uint) (bool, error)
}

type contentRepository struct {
	base
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB, opts ...Option) ContentRepository {
	return &contentRepository{base: newBase(db, opts)}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(content).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Content, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	contents := make([]models.Content, 0)
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&contents).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return contents, nil
}

func (r *contentRepository) DeleteByUserAndID(ctx context.Context, userID, contentID uint) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	res := db.Where("id = ? AND user_id = ?", contentID, userID).Delete(&models.Content{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
