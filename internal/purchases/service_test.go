package purchases

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/internal/activity"
	"github.com/youssefadel/eduplatform-backend/internal/discounts"
	"github.com/youssefadel/eduplatform-backend/internal/notifications"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type stubPurchasesRepo struct {
	owned       bool
	purchase    *models.Purchase
	enrollment  *models.Enrollment
	incremented uuid.UUID
	createErr   error
	listRows    []models.Purchase
}

func (s *stubPurchasesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPurchasesRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.purchase = purchase
	return nil
}

func (s *stubPurchasesRepo) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	s.enrollment = enrollment
	return nil
}

func (s *stubPurchasesRepo) IncrementEnrollmentCount(ctx context.Context, courseID uuid.UUID) error {
	s.incremented = courseID
	return nil
}

func (s *stubPurchasesRepo) HasCompletedPurchase(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.owned, nil
}

func (s *stubPurchasesRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	return s.listRows, nil
}

type stubCoursesRepo struct {
	course *models.Course
}

func (s *stubCoursesRepo) GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return s.course, nil
}

type stubDiscounts struct {
	quote    *discounts.Quote
	err      error
	appliedN int
}

func (s *stubDiscounts) Validate(ctx context.Context, code string, courseID uuid.UUID, amount decimal.Decimal) (*discounts.Quote, error) {
	return s.quote, s.err
}

func (s *stubDiscounts) Apply(ctx context.Context, discountID uuid.UUID) error {
	s.appliedN++
	return nil
}

type stubNotify struct {
	inputs []notifications.NotifyInput
}

func (s *stubNotify) Notify(ctx context.Context, input notifications.NotifyInput) error {
	s.inputs = append(s.inputs, input)
	return nil
}

func (s *stubNotify) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (s *stubNotify) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (s *stubNotify) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubNotify) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubAudit struct {
	records []activity.RecordInput
}

func (s *stubAudit) Record(ctx context.Context, input activity.RecordInput) error {
	s.records = append(s.records, input)
	return nil
}

func (s *stubAudit) ListForUser(ctx context.Context, params activity.ListParams) (*activity.ListResult, error) {
	return &activity.ListResult{}, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type fixture struct {
	repo      *stubPurchasesRepo
	courses   *stubCoursesRepo
	discounts *stubDiscounts
	notify    *stubNotify
	audit     *stubAudit
	svc       Service
}

func newFixture(t *testing.T, course *models.Course) *fixture {
	t.Helper()
	f := &fixture{
		repo:      &stubPurchasesRepo{},
		courses:   &stubCoursesRepo{course: course},
		discounts: &stubDiscounts{},
		notify:    &stubNotify{},
		audit:     &stubAudit{},
	}
	svc, err := NewService(f.repo, f.courses, f.discounts, f.notify, f.audit, stubTx{}, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func activeCourse(price string) *models.Course {
	return &models.Course{ID: uuid.New(), Title: "Calculus I", Price: decimal.RequireFromString(price), IsActive: true}
}

func TestBuyRecordsPurchaseEnrollmentNotificationActivity(t *testing.T) {
	t.Parallel()

	course := activeCourse("99.99")
	f := newFixture(t, course)

	userID := uuid.New()
	purchase, err := f.svc.Buy(context.Background(), BuyInput{
		UserID:        userID,
		CourseID:      course.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	if purchase.Status != enums.PurchaseStatusCompleted {
		t.Fatalf("purchase status = %s", purchase.Status)
	}
	if !purchase.AmountPaid.Equal(course.Price) {
		t.Fatalf("amount paid = %s, want %s", purchase.AmountPaid, course.Price)
	}
	if purchase.TransactionID == "" {
		t.Fatalf("transaction id not generated")
	}
	if f.repo.enrollment == nil || f.repo.enrollment.UserID != userID {
		t.Fatalf("enrollment not created")
	}
	if f.repo.incremented != course.ID {
		t.Fatalf("enrollment count not incremented")
	}
	if len(f.notify.inputs) != 1 || f.notify.inputs[0].Type != enums.NotificationTypePurchase {
		t.Fatalf("purchase notification missing: %+v", f.notify.inputs)
	}
	if len(f.audit.records) != 1 || f.audit.records[0].Action != "course_purchased" {
		t.Fatalf("purchase activity missing: %+v", f.audit.records)
	}
}

func TestBuyAppliesDiscount(t *testing.T) {
	t.Parallel()

	course := activeCourse("100.00")
	f := newFixture(t, course)
	f.discounts.quote = &discounts.Quote{
		Discount: &models.Discount{ID: uuid.New()},
		Original: course.Price,
		Final:    decimal.RequireFromString("75.00"),
	}

	purchase, err := f.svc.Buy(context.Background(), BuyInput{
		UserID:        uuid.New(),
		CourseID:      course.ID,
		PaymentMethod: "card",
		DiscountCode:  "SAVE25",
	})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !purchase.AmountPaid.Equal(decimal.RequireFromString("75.00")) {
		t.Fatalf("discounted amount = %s", purchase.AmountPaid)
	}
	if f.discounts.appliedN != 1 {
		t.Fatalf("discount use not consumed")
	}
}

func TestBuyRejectsInvalidDiscount(t *testing.T) {
	t.Parallel()

	course := activeCourse("100.00")
	f := newFixture(t, course)
	f.discounts.err = pkgerrors.New(pkgerrors.CodeValidation, "discount code has expired")

	_, err := f.svc.Buy(context.Background(), BuyInput{
		UserID:        uuid.New(),
		CourseID:      course.ID,
		PaymentMethod: "card",
		DiscountCode:  "OLD",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.repo.purchase != nil {
		t.Fatalf("purchase must not be recorded on discount failure")
	}
}

func TestBuyAlreadyOwnedIsConflict(t *testing.T) {
	t.Parallel()

	course := activeCourse("50.00")
	f := newFixture(t, course)
	f.repo.owned = true

	_, err := f.svc.Buy(context.Background(), BuyInput{
		UserID:        uuid.New(),
		CourseID:      course.ID,
		PaymentMethod: "card",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBuyUnknownOrInactiveCourse(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		_, err := f.svc.Buy(context.Background(), BuyInput{UserID: uuid.New(), CourseID: uuid.New(), PaymentMethod: "card"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("inactive", func(t *testing.T) {
		t.Parallel()
		course := activeCourse("50.00")
		course.IsActive = false
		f := newFixture(t, course)
		_, err := f.svc.Buy(context.Background(), BuyInput{UserID: uuid.New(), CourseID: course.ID, PaymentMethod: "card"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
