package activity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/pagination"
)

type stubRepo struct {
	created *models.Activity
	rows    []models.Activity
	next    *pagination.Cursor
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, entry *models.Activity) error {
	s.created = entry
	return nil
}

func (s *stubRepo) ListForUser(ctx context.Context, params listActivityParams) ([]models.Activity, *pagination.Cursor, error) {
	return s.rows, s.next, nil
}

func TestRecordValidates(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Record(context.Background(), RecordInput{Status: enums.ActivityStatusSuccess}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing action, got %v", err)
	}
	if err := svc.Record(context.Background(), RecordInput{Action: "login", Status: enums.ActivityStatus("bogus")}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestRecordPersistsEntry(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, _ := NewService(repo)

	userID := uuid.New()
	err := svc.Record(context.Background(), RecordInput{
		UserID: &userID,
		Action: "lesson_watched",
		Status: enums.ActivityStatusSuccess,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if repo.created == nil || repo.created.Action != "lesson_watched" || *repo.created.UserID != userID {
		t.Fatalf("unexpected created entry %+v", repo.created)
	}
}

func TestRecordAllowsAnonymousEntries(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, _ := NewService(repo)

	err := svc.Record(context.Background(), RecordInput{
		Action: "login_failed",
		Status: enums.ActivityStatusError,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if repo.created.UserID != nil {
		t.Fatalf("expected nil user id")
	}
}

func TestListForUserRequiresUser(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{})
	if _, err := svc.ListForUser(context.Background(), ListParams{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
