package videos

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type lessonsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	// ClaimRemoteVideoID swaps the lesson's remote video id from expected to
	// next in a single conditional update. A false return means another
	// writer changed the id first.
	ClaimRemoteVideoID(ctx context.Context, lessonID uuid.UUID, expected, next string) (bool, error)
}

type streamClient interface {
	CreateVideo(ctx context.Context, title string) (string, error)
	UploadVideo(ctx context.Context, videoID string, body io.Reader) error
	UpdateVideoTitle(ctx context.Context, videoID, title string) error
	DeleteVideo(ctx context.Context, videoID string) error
	GetVideo(ctx context.Context, videoID string) (*bunny.Video, error)
}

// Service manages the lifecycle of lesson videos on the CDN. The local lesson
// row is the source of truth for which remote asset a lesson points at; it is
// only ever updated after the remote side has fully succeeded, so a crash or
// remote failure can leave an orphan asset on the CDN but never a lesson
// pointing at a half-uploaded video.
type Service interface {
	Upload(ctx context.Context, lessonID uuid.UUID, title string, body io.Reader) (string, error)
	Rename(ctx context.Context, lessonID uuid.UUID, title string) (bool, error)
	Delete(ctx context.Context, lessonID uuid.UUID) (bool, error)
	Metadata(ctx context.Context, lessonID uuid.UUID) (*bunny.Video, error)
}

type service struct {
	repo   lessonsRepository
	client streamClient
	logg   *logger.Logger
}

// NewService constructs the lesson video service.
func NewService(repo lessonsRepository, client streamClient, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lessons repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("stream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, client: client, logg: logg}, nil
}

// Upload registers a new remote asset, streams the content into it, and only
// then points the lesson at the new id. When the lesson already had a video
// the old asset is deleted best-effort after the swap. If the upload step
// fails the new asset is left orphaned on the CDN for the reconcile job to
// collect; the lesson keeps its previous id either way.
func (s *service) Upload(ctx context.Context, lessonID uuid.UUID, title string, body io.Reader) (string, error) {
	if body == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "video content is required")
	}

	lesson, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return "", err
	}
	previousID := lesson.RemoteVideoID

	if strings.TrimSpace(title) == "" {
		title = lesson.Title
	}

	ctx = s.logg.WithLessonID(ctx, lessonID.String())

	newID, err := s.client.CreateVideo(ctx, title)
	if err != nil {
		return "", err
	}

	if err := s.client.UploadVideo(ctx, newID, body); err != nil {
		// The registered asset stays behind as an orphan; the reconcile
		// job removes assets no lesson references.
		s.logg.Warn(s.logg.WithField(ctx, "orphan_video_id", newID), "video upload failed after registration")
		return "", err
	}

	claimed, err := s.repo.ClaimRemoteVideoID(ctx, lessonID, previousID, newID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist lesson video id")
	}
	if !claimed {
		// A concurrent upload won the swap. Our fully-uploaded asset is
		// now unreferenced; remove it rather than leave it for the
		// reconcile job.
		if delErr := s.client.DeleteVideo(ctx, newID); delErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "orphan_video_id", newID), "failed to delete video after lost upload race")
		}
		return "", pkgerrors.New(pkgerrors.CodeConflict, "lesson video changed during upload")
	}

	if previousID != "" {
		if delErr := s.client.DeleteVideo(ctx, previousID); delErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "orphan_video_id", previousID), "failed to delete replaced video")
		}
	}

	return newID, nil
}

// Rename updates the remote asset's title. Returns false when the remote side
// refused or was unreachable; the local lesson title is managed separately.
func (s *service) Rename(ctx context.Context, lessonID uuid.UUID, title string) (bool, error) {
	lesson, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return false, err
	}
	if !lesson.HasVideo() {
		return false, pkgerrors.New(pkgerrors.CodeContentUnavailable, "lesson has no video")
	}

	if err := s.client.UpdateVideoTitle(ctx, lesson.RemoteVideoID, title); err != nil {
		s.logg.Warn(s.logg.WithLessonID(ctx, lessonID.String()), "remote video rename failed")
		return false, nil
	}
	return true, nil
}

// Delete removes the remote asset and clears the lesson's reference. The
// reference is cleared even when the remote delete fails, so the lesson never
// points at an asset we tried to remove; the reconcile job retries the remote
// side. Returns whether the remote delete succeeded.
func (s *service) Delete(ctx context.Context, lessonID uuid.UUID) (bool, error) {
	lesson, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return false, err
	}
	if !lesson.HasVideo() {
		return false, pkgerrors.New(pkgerrors.CodeContentUnavailable, "lesson has no video")
	}

	remoteOK := true
	if err := s.client.DeleteVideo(ctx, lesson.RemoteVideoID); err != nil {
		remoteOK = false
		s.logg.Warn(s.logg.WithLessonID(ctx, lessonID.String()), "remote video delete failed")
	}

	if _, err := s.repo.ClaimRemoteVideoID(ctx, lessonID, lesson.RemoteVideoID, ""); err != nil {
		return remoteOK, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear lesson video id")
	}
	return remoteOK, nil
}

// Metadata fetches the remote asset's current state for diagnostics.
func (s *service) Metadata(ctx context.Context, lessonID uuid.UUID) (*bunny.Video, error) {
	lesson, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.HasVideo() {
		return nil, pkgerrors.New(pkgerrors.CodeContentUnavailable, "lesson has no video")
	}
	return s.client.GetVideo(ctx, lesson.RemoteVideoID)
}

func (s *service) loadLesson(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error) {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lesson")
	}
	if lesson == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lesson not found")
	}
	return lesson, nil
}
