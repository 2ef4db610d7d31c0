package videos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
)

// Repository exposes the lesson-video persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lesson-video repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns the lesson or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ClaimRemoteVideoID performs the conditional swap of a lesson's remote video
// id. The WHERE clause on the current value serializes concurrent uploads to
// the same lesson: only the writer whose expected value still matches wins.
func (r *Repository) ClaimRemoteVideoID(ctx context.Context, lessonID uuid.UUID, expected, next string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ? AND remote_video_id = ?", lessonID, expected).
		Update("remote_video_id", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReferencedRemoteVideoIDs returns every non-empty remote video id lessons
// currently point at. Used by the orphan reconcile job to decide which remote
// assets are safe to delete.
func (r *Repository) ReferencedRemoteVideoIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("remote_video_id <> ''").
		Pluck("remote_video_id", &ids).Error
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		referenced[id] = struct{}{}
	}
	return referenced, nil
}
