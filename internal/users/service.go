package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/config"
	"github.com/youssefadel/eduplatform-backend/pkg/db"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/security"
)

// Service exposes profile and wishlist operations for the signed-in user.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	AddToWishlist(ctx context.Context, userID, courseID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, userID, courseID uuid.UUID) error
	Wishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
}

// UpdateProfileInput carries optional profile patches; nil fields stay unchanged.
type UpdateProfileInput struct {
	FullName   *string
	Phone      *string
	University *string
}

type service struct {
	repo  Repository
	pwCfg config.PasswordConfig
}

// NewService wires the users service.
func NewService(repo Repository, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, pwCfg: pwCfg}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.load(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
		}
		user.FullName = name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.University != nil {
		user.University = input.University
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) AddToWishlist(ctx context.Context, userID, courseID uuid.UUID) error {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and course id required")
	}
	err := s.repo.AddWishlistItem(ctx, &models.WishlistItem{UserID: userID, CourseID: courseID})
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "course already in wishlist")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

func (s *service) RemoveFromWishlist(ctx context.Context, userID, courseID uuid.UUID) error {
	removed, err := s.repo.RemoveWishlistItem(ctx, userID, courseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

func (s *service) Wishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	items, err := s.repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return items, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}
