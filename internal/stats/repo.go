package stats

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// Repository answers aggregate queries over the core tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stats repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountLessons(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lesson{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountLessonsWithoutVideo(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("remote_video_id = ''").
		Count(&count).Error
	return count, err
}

func (r *Repository) CountCompletedPurchases(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("status = ?", enums.PurchaseStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountEnrollments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Count(&count).Error
	return count, err
}

func (r *Repository) SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("status = ?", enums.PurchaseStatusCompleted).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
