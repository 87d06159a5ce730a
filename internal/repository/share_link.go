package repository

import (
	"context"
	"errors"

	"brainvault/internal/models"

	"gorm.io/gorm"
)

// ShareLinkRepository persists hash→owner share records.
type ShareLinkRepository interface {
	Create(ctx context.Context, link *models.ShareLink) error
	// GetByHash returns nil, nil when no record matches.
	GetByHash(ctx context.Context, hash string) (*models.ShareLink, error)
	// DeleteByUser removes every link owned by userID and returns their hashes.
	DeleteByUser(ctx context.Context, userID uint) ([]string, error)
}

type shareLinkRepository struct {
	base
}

// NewShareLinkRepository creates a new share link repository
func NewShareLinkRepository(db *gorm.DB, opts ...Option) ShareLinkRepository {
	return &shareLinkRepository{base: newBase(db, opts)}
}

func (r *shareLinkRepository) Create(ctx context.Context, link *models.ShareLink) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(link).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("share hash already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *shareLinkRepository) GetByHash(ctx context.Context, hash string) (*models.ShareLink, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var link models.ShareLink
	if err := db.Where("hash = ?", hash).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &link, nil
}

func (r *shareLinkRepository) DeleteByUser(ctx context.Context, userID uint) ([]string, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var hashes []string
	if err := db.Model(&models.ShareLink{}).Where("user_id = ?", userID).Pluck("hash", &hashes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(hashes) == 0 {
		return nil, nil
	}
	// Only delete what was read so every removed hash is reported for cache eviction.
	if err := db.Where("user_id = ? AND hash IN ?", userID, hashes).Delete(&models.ShareLink{}).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return hashes, nil
}
