package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

type stubUsersRepo struct {
	user  *models.User
	err   error
	calls int
}

func (s *stubUsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.calls++
	return s.user, s.err
}

type stubPurchasesRepo struct {
	entitled bool
	err      error
	calls    int
}

func (s *stubPurchasesRepo) HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	s.calls++
	return s.entitled, s.err
}

func activeUser(role enums.UserRole) *models.User {
	return &models.User{ID: uuid.New(), Role: role, IsActive: true}
}

func TestCanViewCourseAdminBypassesEntitlement(t *testing.T) {
	t.Parallel()

	purchases := &stubPurchasesRepo{entitled: false}
	svc, err := NewService(&stubUsersRepo{user: activeUser(enums.UserRoleAdmin)}, purchases)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	allowed, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("can view: %v", err)
	}
	if !allowed {
		t.Fatalf("admin should always be allowed")
	}
	if purchases.calls != 0 {
		t.Fatalf("admin path should not query purchases")
	}
}

func TestCanViewCourseRequiresCompletedPurchase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		entitled bool
		want     bool
	}{
		{"completed purchase exists", true, true},
		{"no completed purchase", false, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewService(&stubUsersRepo{user: activeUser(enums.UserRoleUser)}, &stubPurchasesRepo{entitled: tc.entitled})
			if err != nil {
				t.Fatalf("new service: %v", err)
			}

			allowed, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New())
			if err != nil {
				t.Fatalf("can view: %v", err)
			}
			if allowed != tc.want {
				t.Fatalf("allowed = %v, want %v", allowed, tc.want)
			}
		})
	}
}

func TestCanViewCourseReadsFreshPerCall(t *testing.T) {
	t.Parallel()

	users := &stubUsersRepo{user: activeUser(enums.UserRoleUser)}
	purchases := &stubPurchasesRepo{entitled: true}
	svc, err := NewService(users, purchases)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	userID := uuid.New()
	courseID := uuid.New()

	if _, err := svc.CanViewCourse(context.Background(), userID, courseID); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Entitlement flips between calls; the second answer must reflect it.
	purchases.entitled = false
	allowed, err := svc.CanViewCourse(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if allowed {
		t.Fatalf("revoked entitlement still granted; result was cached")
	}
	if purchases.calls != 2 || users.calls != 2 {
		t.Fatalf("expected fresh reads per call, got users=%d purchases=%d", users.calls, purchases.calls)
	}
}

func TestCanViewCourseDeniesUnknownOrInactiveUser(t *testing.T) {
	t.Parallel()

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc, _ := NewService(&stubUsersRepo{user: nil}, &stubPurchasesRepo{entitled: true})
		allowed, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New())
		if err != nil || allowed {
			t.Fatalf("unknown user should be denied, got allowed=%v err=%v", allowed, err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		t.Parallel()
		inactive := activeUser(enums.UserRoleAdmin)
		inactive.IsActive = false
		svc, _ := NewService(&stubUsersRepo{user: inactive}, &stubPurchasesRepo{entitled: true})
		allowed, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New())
		if err != nil || allowed {
			t.Fatalf("inactive user should be denied, got allowed=%v err=%v", allowed, err)
		}
	})

	t.Run("nil ids", func(t *testing.T) {
		t.Parallel()
		users := &stubUsersRepo{user: activeUser(enums.UserRoleUser)}
		svc, _ := NewService(users, &stubPurchasesRepo{entitled: true})
		allowed, err := svc.CanViewCourse(context.Background(), uuid.Nil, uuid.Nil)
		if err != nil || allowed {
			t.Fatalf("nil ids should be denied, got allowed=%v err=%v", allowed, err)
		}
		if users.calls != 0 {
			t.Fatalf("nil ids should not hit the store")
		}
	})
}

func TestCanViewCourseSurfacesRepoErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")

	svc, _ := NewService(&stubUsersRepo{err: boom}, &stubPurchasesRepo{})
	if _, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped user repo error, got %v", err)
	}

	svc, _ = NewService(&stubUsersRepo{user: activeUser(enums.UserRoleUser)}, &stubPurchasesRepo{err: boom})
	if _, err := svc.CanViewCourse(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped purchases repo error, got %v", err)
	}
}

func TestRequireCourseAccess(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubUsersRepo{user: activeUser(enums.UserRoleUser)}, &stubPurchasesRepo{entitled: false})
	err := svc.RequireCourseAccess(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	svc, _ = NewService(&stubUsersRepo{user: activeUser(enums.UserRoleUser)}, &stubPurchasesRepo{entitled: true})
	if err := svc.RequireCourseAccess(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected access granted, got %v", err)
	}
}
