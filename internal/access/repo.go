package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// UsersRepo loads users for access decisions.
type UsersRepo struct {
	db *gorm.DB
}

// NewUsersRepo constructs a users repository tied to the provided GORM DB.
func NewUsersRepo(db *gorm.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

// GetByID returns the user or nil when no row exists.
func (r *UsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
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

// PurchasesRepo answers entitlement queries.
type PurchasesRepo struct {
	db *gorm.DB
}

// NewPurchasesRepo constructs a purchases repository tied to the provided GORM DB.
func NewPurchasesRepo(db *gorm.DB) *PurchasesRepo {
	return &PurchasesRepo{db: db}
}

// HasCompletedPurchase reports whether a completed purchase row exists for the
// user and course pair. Always hits the database; entitlement is never cached.
func (r *PurchasesRepo) HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, enums.PurchaseStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
