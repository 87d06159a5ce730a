package repository

import (
	"context"
	"errors"

	"brainvault/internal/models"

	"gorm.io/gorm"
)

// publicUserColumns is the default projection; it never includes the password hash.
var publicUserColumns = []string{"id", "username", "created_at", "updated_at"}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetCredentials returns the user including the password hash, or nil if absent.
	GetCredentials(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, opts ...Option) UserRepository {
	return &userRepository{base: newBase(db, opts)}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var user models.User
	if err := db.Select(publicUserColumns).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists with the given username")
		}
		return models.NewInternalError(err)
	}
	return nil
}
