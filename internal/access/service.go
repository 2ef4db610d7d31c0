package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

type usersRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type purchasesRepository interface {
	HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// Service decides whether a user may view a course's content. Admins are
// always allowed; everyone else needs a completed purchase for the course.
// Every call reads the store fresh so revocations and new purchases take
// effect immediately.
type Service interface {
	CanViewCourse(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	RequireCourseAccess(ctx context.Context, userID, courseID uuid.UUID) error
}

type service struct {
	users     usersRepository
	purchases purchasesRepository
}

// NewService constructs the access service.
func NewService(users usersRepository, purchases purchasesRepository) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	return &service{users: users, purchases: purchases}, nil
}

func (s *service) CanViewCourse(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user for access check")
	}
	if user == nil || !user.IsActive {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}

	entitled, err := s.purchases.HasCompletedPurchase(ctx, userID, courseID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check course entitlement")
	}
	return entitled, nil
}

// RequireCourseAccess is CanViewCourse with denial mapped to a forbidden error.
func (s *service) RequireCourseAccess(ctx context.Context, userID, courseID uuid.UUID) error {
	allowed, err := s.CanViewCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeForbidden, "course access denied")
	}
	return nil
}
