package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// Repository exposes purchase persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) error
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	IncrementEnrollmentCount(ctx context.Context, courseID uuid.UUID) error
	HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs a purchases repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *repositoryImpl) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *repositoryImpl) IncrementEnrollmentCount(ctx context.Context, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
}

func (r *repositoryImpl) HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
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

func (r *repositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&purchases).Error
	return purchases, err
}
