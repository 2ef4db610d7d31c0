package videos

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type stubLessonsRepo struct {
	lesson *models.Lesson
	getErr error

	claimOK      bool
	claimErr     error
	claimCalls   int
	lastExpected string
	lastNext     string
}

func (s *stubLessonsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return s.lesson, s.getErr
}

func (s *stubLessonsRepo) ClaimRemoteVideoID(ctx context.Context, lessonID uuid.UUID, expected, next string) (bool, error) {
	s.claimCalls++
	s.lastExpected = expected
	s.lastNext = next
	return s.claimOK, s.claimErr
}

type stubStreamClient struct {
	createID  string
	createErr error

	uploadErr  error
	uploadedID string
	uploaded   string

	renameErr error
	renamedID string

	deleteErr  error
	deletedIDs []string

	video  *bunny.Video
	getErr error
}

func (s *stubStreamClient) CreateVideo(ctx context.Context, title string) (string, error) {
	return s.createID, s.createErr
}

func (s *stubStreamClient) UploadVideo(ctx context.Context, videoID string, body io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, _ := io.ReadAll(body)
	s.uploadedID = videoID
	s.uploaded = string(data)
	return nil
}

func (s *stubStreamClient) UpdateVideoTitle(ctx context.Context, videoID, title string) error {
	s.renamedID = videoID
	return s.renameErr
}

func (s *stubStreamClient) DeleteVideo(ctx context.Context, videoID string) error {
	s.deletedIDs = append(s.deletedIDs, videoID)
	return s.deleteErr
}

func (s *stubStreamClient) GetVideo(ctx context.Context, videoID string) (*bunny.Video, error) {
	return s.video, s.getErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func lessonWithVideo(remoteID string) *models.Lesson {
	return &models.Lesson{ID: uuid.New(), CourseID: uuid.New(), Title: "Intro", RemoteVideoID: remoteID}
}

func newVideoService(t *testing.T, repo *stubLessonsRepo, client *stubStreamClient) Service {
	t.Helper()
	svc, err := NewService(repo, client, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUploadNewVideo(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo(""), claimOK: true}
	client := &stubStreamClient{createID: "vid_new"}
	svc := newVideoService(t, repo, client)

	remoteID, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if remoteID != "vid_new" {
		t.Fatalf("unexpected remote id %q", remoteID)
	}
	if client.uploadedID != "vid_new" || client.uploaded != "bytes" {
		t.Fatalf("content not uploaded to new asset: id=%q body=%q", client.uploadedID, client.uploaded)
	}
	if repo.claimCalls != 1 || repo.lastExpected != "" || repo.lastNext != "vid_new" {
		t.Fatalf("unexpected claim: calls=%d expected=%q next=%q", repo.claimCalls, repo.lastExpected, repo.lastNext)
	}
	if len(client.deletedIDs) != 0 {
		t.Fatalf("nothing should be deleted on a first upload, got %v", client.deletedIDs)
	}
}

func TestUploadReplaceDeletesOldAsset(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_old"), claimOK: true}
	client := &stubStreamClient{createID: "vid_new"}
	svc := newVideoService(t, repo, client)

	if _, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if repo.lastExpected != "vid_old" || repo.lastNext != "vid_new" {
		t.Fatalf("swap should go old->new, got %q->%q", repo.lastExpected, repo.lastNext)
	}
	if len(client.deletedIDs) != 1 || client.deletedIDs[0] != "vid_old" {
		t.Fatalf("old asset should be deleted, got %v", client.deletedIDs)
	}
}

func TestUploadReplaceToleratesOldAssetDeleteFailure(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_old"), claimOK: true}
	client := &stubStreamClient{createID: "vid_new", deleteErr: errors.New("remote down")}
	svc := newVideoService(t, repo, client)

	remoteID, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("replace must succeed despite old-asset delete failure, got %v", err)
	}
	if remoteID != "vid_new" {
		t.Fatalf("unexpected remote id %q", remoteID)
	}
}

func TestUploadRegisterFailureLeavesLessonUntouched(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_old")}
	client := &stubStreamClient{createErr: pkgerrors.New(pkgerrors.CodeRemoteAsset, "status 500")}
	svc := newVideoService(t, repo, client)

	_, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemoteAsset) {
		t.Fatalf("expected remote asset error, got %v", err)
	}
	if repo.claimCalls != 0 {
		t.Fatalf("lesson must not be touched when registration fails")
	}
}

func TestUploadContentFailureLeavesLessonUntouched(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_old")}
	client := &stubStreamClient{createID: "vid_new", uploadErr: pkgerrors.New(pkgerrors.CodeRemoteTimeout, "upload timed out")}
	svc := newVideoService(t, repo, client)

	_, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemoteTimeout) {
		t.Fatalf("expected remote timeout, got %v", err)
	}
	if repo.claimCalls != 0 {
		t.Fatalf("lesson must keep its previous video id after a failed upload")
	}
	// The registered asset is left for the reconcile job, not deleted inline.
	if len(client.deletedIDs) != 0 {
		t.Fatalf("unexpected deletes %v", client.deletedIDs)
	}
}

func TestUploadLostRaceDeletesOwnAsset(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo(""), claimOK: false}
	client := &stubStreamClient{createID: "vid_new"}
	svc := newVideoService(t, repo, client)

	_, err := svc.Upload(context.Background(), repo.lesson.ID, "Intro", strings.NewReader("bytes"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict after lost race, got %v", err)
	}
	if len(client.deletedIDs) != 1 || client.deletedIDs[0] != "vid_new" {
		t.Fatalf("loser must delete its own asset, got %v", client.deletedIDs)
	}
}

func TestUploadUnknownLesson(t *testing.T) {
	t.Parallel()

	svc := newVideoService(t, &stubLessonsRepo{lesson: nil}, &stubStreamClient{createID: "vid_new"})

	_, err := svc.Upload(context.Background(), uuid.New(), "Intro", strings.NewReader("bytes"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenameBestEffort(t *testing.T) {
	t.Parallel()

	t.Run("remote success", func(t *testing.T) {
		t.Parallel()
		repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_abc")}
		client := &stubStreamClient{}
		svc := newVideoService(t, repo, client)

		ok, err := svc.Rename(context.Background(), repo.lesson.ID, "New title")
		if err != nil || !ok {
			t.Fatalf("rename = %v, %v", ok, err)
		}
		if client.renamedID != "vid_abc" {
			t.Fatalf("renamed wrong asset %q", client.renamedID)
		}
	})

	t.Run("remote failure returns false without error", func(t *testing.T) {
		t.Parallel()
		repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_abc")}
		client := &stubStreamClient{renameErr: errors.New("remote down")}
		svc := newVideoService(t, repo, client)

		ok, err := svc.Rename(context.Background(), repo.lesson.ID, "New title")
		if err != nil {
			t.Fatalf("best-effort rename must not error, got %v", err)
		}
		if ok {
			t.Fatalf("expected false on remote failure")
		}
	})

	t.Run("no video", func(t *testing.T) {
		t.Parallel()
		repo := &stubLessonsRepo{lesson: lessonWithVideo("")}
		svc := newVideoService(t, repo, &stubStreamClient{})

		_, err := svc.Rename(context.Background(), repo.lesson.ID, "New title")
		if !pkgerrors.IsCode(err, pkgerrors.CodeContentUnavailable) {
			t.Fatalf("expected content unavailable, got %v", err)
		}
	})
}

func TestDeleteClearsReferenceEvenWhenRemoteFails(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_abc"), claimOK: true}
	client := &stubStreamClient{deleteErr: errors.New("remote down")}
	svc := newVideoService(t, repo, client)

	ok, err := svc.Delete(context.Background(), repo.lesson.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok {
		t.Fatalf("expected false when remote delete fails")
	}
	if repo.claimCalls != 1 || repo.lastExpected != "vid_abc" || repo.lastNext != "" {
		t.Fatalf("reference must be cleared, got calls=%d %q->%q", repo.claimCalls, repo.lastExpected, repo.lastNext)
	}
}

func TestDeleteRemoteSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_abc"), claimOK: true}
	client := &stubStreamClient{}
	svc := newVideoService(t, repo, client)

	ok, err := svc.Delete(context.Background(), repo.lesson.ID)
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if len(client.deletedIDs) != 1 || client.deletedIDs[0] != "vid_abc" {
		t.Fatalf("unexpected deletes %v", client.deletedIDs)
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	t.Run("fetches remote state", func(t *testing.T) {
		t.Parallel()
		repo := &stubLessonsRepo{lesson: lessonWithVideo("vid_abc")}
		client := &stubStreamClient{video: &bunny.Video{GUID: "vid_abc", Title: "Intro"}}
		svc := newVideoService(t, repo, client)

		video, err := svc.Metadata(context.Background(), repo.lesson.ID)
		if err != nil {
			t.Fatalf("metadata: %v", err)
		}
		if video.GUID != "vid_abc" {
			t.Fatalf("unexpected video %+v", video)
		}
	})

	t.Run("no video", func(t *testing.T) {
		t.Parallel()
		repo := &stubLessonsRepo{lesson: lessonWithVideo("")}
		svc := newVideoService(t, repo, &stubStreamClient{})

		_, err := svc.Metadata(context.Background(), repo.lesson.ID)
		if !pkgerrors.IsCode(err, pkgerrors.CodeContentUnavailable) {
			t.Fatalf("expected content unavailable, got %v", err)
		}
	})
}
