package courses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
	"github.com/youssefadel/eduplatform-backend/pkg/pagination"
)

type streamClient interface {
	DeleteVideo(ctx context.Context, videoID string) error
}

// Service exposes course catalog operations. Writes are admin-gated at the
// HTTP layer; the service itself only enforces data rules.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Course, error)
	Update(ctx context.Context, courseID uuid.UUID, input UpdateInput) (*models.Course, error)
	Delete(ctx context.Context, courseID uuid.UUID) error
	GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// CreateInput carries the fields for a new course.
type CreateInput struct {
	Title       string
	Description *string
	Price       decimal.Decimal
	University  *string
	ImageURL    *string
	Page        string
}

// UpdateInput carries optional patches; nil fields stay unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	University  *string
	ImageURL    *string
	Page        *string
	IsActive    *bool
}

// ListParams filters and paginates the catalog.
type ListParams struct {
	Search     string
	Page       string
	University string
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// ListResult wraps returned courses and the cursor for the next page.
type ListResult struct {
	Items  []models.Course `json:"items"`
	Cursor string          `json:"cursor"`
}

type service struct {
	repo   Repository
	client streamClient
	logg   *logger.Logger
}

// NewService wires the courses service.
func NewService(repo Repository, client streamClient, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("courses repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("stream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, client: client, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Course, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course title required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course price cannot be negative")
	}

	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		University:  input.University,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if page := strings.TrimSpace(input.Page); page != "" {
		course.Page = page
	} else {
		course.Page = "page-1"
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create course")
	}
	return course, nil
}

func (s *service) Update(ctx context.Context, courseID uuid.UUID, input UpdateInput) (*models.Course, error) {
	course, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "course title required")
		}
		course.Title = title
	}
	if input.Description != nil {
		course.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "course price cannot be negative")
		}
		course.Price = *input.Price
	}
	if input.University != nil {
		course.University = input.University
	}
	if input.ImageURL != nil {
		course.ImageURL = input.ImageURL
	}
	if input.Page != nil && strings.TrimSpace(*input.Page) != "" {
		course.Page = strings.TrimSpace(*input.Page)
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update course")
	}
	return course, nil
}

// Delete removes the course and its lessons (cascade), then deletes each
// lesson's remote video best-effort. A remote failure leaves an orphan for
// the reconcile job; local deletion is never blocked on the CDN.
func (s *service) Delete(ctx context.Context, courseID uuid.UUID) error {
	if _, err := s.load(ctx, courseID); err != nil {
		return err
	}

	remoteIDs, err := s.repo.LessonRemoteVideoIDs(ctx, courseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect course video ids")
	}

	if err := s.repo.Delete(ctx, courseID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete course")
	}

	ctx = s.logg.WithCourseID(ctx, courseID.String())
	for _, remoteID := range remoteIDs {
		if err := s.client.DeleteVideo(ctx, remoteID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "orphan_video_id", remoteID), "failed to delete course video")
		}
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return s.load(ctx, courseID)
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{
		search:     strings.TrimSpace(params.Search),
		page:       strings.TrimSpace(params.Page),
		university: strings.TrimSpace(params.University),
		activeOnly: params.ActiveOnly,
		limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list courses")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) load(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	course, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if course == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	return course, nil
}
