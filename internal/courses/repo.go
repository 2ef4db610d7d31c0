package courses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/pagination"
)

// Repository exposes course persistence operations.
type Repository interface {
	Create(ctx context.Context, course *models.Course) error
	Save(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, courseID uuid.UUID) error
	GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error)
	List(ctx context.Context, query listQuery) ([]models.Course, *pagination.Cursor, error)
	LessonRemoteVideoIDs(ctx context.Context, courseID uuid.UUID) ([]string, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs a courses repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listQuery struct {
	search     string
	page       string
	university string
	activeOnly bool
	limit      int
	cursor     *pagination.Cursor
}

func (r *repositoryImpl) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *repositoryImpl) Save(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", courseID).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *repositoryImpl) List(ctx context.Context, query listQuery) ([]models.Course, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(query.limit)
	normalized := pagination.NormalizeLimit(query.limit)

	q := r.db.WithContext(ctx).Model(&models.Course{})
	if query.activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if query.search != "" {
		pattern := "%" + query.search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if query.page != "" {
		q = q.Where("page = ?", query.page)
	}
	if query.university != "" {
		q = q.Where("university = ?", query.university)
	}
	if query.cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.cursor.CreatedAt, query.cursor.ID)
	}

	var courses []models.Course
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&courses).Error; err != nil {
		return nil, nil, err
	}

	if len(courses) > normalized {
		next := courses[normalized]
		courses = courses[:normalized]
		return courses, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return courses, nil, nil
}

// LessonRemoteVideoIDs returns the non-empty remote video ids of the course's
// lessons, read before deletion so the CDN assets can be cleaned up after.
func (r *repositoryImpl) LessonRemoteVideoIDs(ctx context.Context, courseID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("course_id = ? AND remote_video_id <> ''", courseID).
		Pluck("remote_video_id", &ids).Error
	return ids, err
}
