package discounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
)

// Repository exposes discount persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a discounts repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByCode returns the discount with course bindings preloaded, or nil.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).
		Preload("CourseDiscounts").
		First(&discount, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// IncrementUsage bumps used_count while re-checking the cap in the same
// statement. Returns false when the cap was already reached.
func (r *Repository) IncrementUsage(ctx context.Context, discountID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", discountID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
