package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/pagination"
)

// Service writes and reads the append-only audit trail. Records are
// best-effort from the caller's point of view: domain flows log a failed
// write and carry on rather than failing the user's request.
type Service interface {
	Record(ctx context.Context, input RecordInput) error
	ListForUser(ctx context.Context, params ListParams) (*ListResult, error)
}

// RecordInput describes a single audit entry.
type RecordInput struct {
	UserID  *uuid.UUID
	Action  string
	Details *string
	Status  enums.ActivityStatus
}

// ListParams configures pagination for a user's activity feed.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// ListResult wraps returned entries and the cursor for the next page.
type ListResult struct {
	Items  []models.Activity `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo Repository
}

// NewService wires activity dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) error {
	if input.Action == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "action required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid activity status")
	}

	entry := &models.Activity{
		UserID:  input.UserID,
		Action:  input.Action,
		Details: input.Details,
		Status:  input.Status,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record activity")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listActivityParams{UserID: params.UserID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListForUser(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
