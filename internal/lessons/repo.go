package lessons

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
)

// Repository exposes lesson persistence operations.
type Repository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	Save(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, lessonID uuid.UUID) error
	GetByID(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs a lessons repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *repositoryImpl) Save(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, lessonID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Lesson{}, "id = ?", lessonID).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, "id = ?", lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *repositoryImpl) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC, created_at ASC").
		Find(&lessons).Error
	return lessons, err
}
