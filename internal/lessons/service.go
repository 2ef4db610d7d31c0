package lessons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/internal/access"
	"github.com/youssefadel/eduplatform-backend/internal/activity"
	"github.com/youssefadel/eduplatform-backend/internal/playback"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

// Service exposes lesson CRUD plus the Watch hot path that hands out playback
// URLs for entitled viewers.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Lesson, error)
	Update(ctx context.Context, lessonID uuid.UUID, input UpdateInput) (*models.Lesson, error)
	Delete(ctx context.Context, lessonID uuid.UUID) error
	GetByID(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
	Watch(ctx context.Context, userID, lessonID uuid.UUID) (*WatchResult, error)
}

// CreateInput carries the fields for a new lesson.
type CreateInput struct {
	CourseID    uuid.UUID
	Title       string
	Description *string
	Position    int
	Duration    *string
}

// UpdateInput carries optional patches; nil fields stay unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Position    *int
	Duration    *string
}

// WatchResult is what the watch endpoint returns: the lesson and the playback
// URL (signed, or unsigned with a warning in degraded mode).
type WatchResult struct {
	Lesson   *models.Lesson
	Playback *playback.PlaybackURL
}

type service struct {
	repo     Repository
	access   access.Service
	builder  *playback.Builder
	activity activity.Service
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the lessons service.
func NewService(repo Repository, accessSvc access.Service, builder *playback.Builder, activitySvc activity.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lessons repository required")
	}
	if accessSvc == nil {
		return nil, fmt.Errorf("access service required")
	}
	if builder == nil {
		return nil, fmt.Errorf("playback builder required")
	}
	if activitySvc == nil {
		return nil, fmt.Errorf("activity service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		access:   accessSvc,
		builder:  builder,
		activity: activitySvc,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Lesson, error) {
	if input.CourseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lesson title required")
	}

	lesson := &models.Lesson{
		CourseID:    input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
		Duration:    input.Duration,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lesson")
	}
	return lesson, nil
}

func (s *service) Update(ctx context.Context, lessonID uuid.UUID, input UpdateInput) (*models.Lesson, error) {
	lesson, err := s.load(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lesson title required")
		}
		lesson.Title = title
	}
	if input.Description != nil {
		lesson.Description = input.Description
	}
	if input.Position != nil {
		lesson.Position = *input.Position
	}
	if input.Duration != nil {
		lesson.Duration = input.Duration
	}

	if err := s.repo.Save(ctx, lesson); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update lesson")
	}
	return lesson, nil
}

func (s *service) Delete(ctx context.Context, lessonID uuid.UUID) error {
	if _, err := s.load(ctx, lessonID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, lessonID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete lesson")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error) {
	return s.load(ctx, lessonID)
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	rows, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lessons")
	}
	return rows, nil
}

// Watch checks the viewer's entitlement against the store, builds the
// playback URL, and records the view in the audit trail. The entitlement read
// happens on every call; a refund or new purchase is visible immediately.
func (s *service) Watch(ctx context.Context, userID, lessonID uuid.UUID) (*WatchResult, error) {
	lesson, err := s.load(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanViewCourse(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	result, err := s.builder.Build(lesson.RemoteVideoID, allowed, s.now())
	if err != nil {
		s.recordWatch(ctx, userID, lesson, enums.ActivityStatusError)
		return nil, err
	}

	if result.Warning != "" {
		s.logg.Warn(s.logg.WithLessonID(ctx, lessonID.String()), result.Warning)
	}

	s.recordWatch(ctx, userID, lesson, enums.ActivityStatusSuccess)
	return &WatchResult{Lesson: lesson, Playback: result}, nil
}

func (s *service) recordWatch(ctx context.Context, userID uuid.UUID, lesson *models.Lesson, status enums.ActivityStatus) {
	details := fmt.Sprintf("lesson %s of course %s", lesson.ID, lesson.CourseID)
	err := s.activity.Record(ctx, activity.RecordInput{
		UserID:  &userID,
		Action:  "lesson_watched",
		Details: &details,
		Status:  status,
	})
	if err != nil {
		s.logg.Warn(s.logg.WithLessonID(ctx, lesson.ID.String()), "failed to record watch activity")
	}
}

func (s *service) load(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error) {
	if lessonID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lesson id required")
	}
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lesson")
	}
	if lesson == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lesson not found")
	}
	return lesson, nil
}
