package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
)

// Repository exposes user and wishlist persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	AddWishlistItem(ctx context.Context, item *models.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs a users repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repositoryImpl) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repositoryImpl) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

func (r *repositoryImpl) AddWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) RemoveWishlistItem(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.WishlistItem{})
	return result.RowsAffected > 0, result.Error
}

func (r *repositoryImpl) ListWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
