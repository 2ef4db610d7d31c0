package purchases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/internal/activity"
	"github.com/youssefadel/eduplatform-backend/internal/discounts"
	"github.com/youssefadel/eduplatform-backend/internal/notifications"
	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type coursesRepository interface {
	GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error)
}

// Service handles buying courses and reading purchase history.
type Service interface {
	Buy(ctx context.Context, input BuyInput) (*models.Purchase, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

// BuyInput carries a purchase request.
type BuyInput struct {
	UserID        uuid.UUID
	CourseID      uuid.UUID
	PaymentMethod string
	TransactionID string
	DiscountCode  string
}

type service struct {
	repo      Repository
	courses   coursesRepository
	discounts discounts.Service
	notify    notifications.Service
	audit     activity.Service
	tx        txRunner
	logg      *logger.Logger
}

// NewService wires the purchases service.
func NewService(repo Repository, courses coursesRepository, discountsSvc discounts.Service, notify notifications.Service, audit activity.Service, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if courses == nil {
		return nil, fmt.Errorf("courses repository required")
	}
	if discountsSvc == nil {
		return nil, fmt.Errorf("discounts service required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if audit == nil {
		return nil, fmt.Errorf("activity service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		courses:   courses,
		discounts: discountsSvc,
		notify:    notify,
		audit:     audit,
		tx:        tx,
		logg:      logg,
	}, nil
}

// Buy records a completed purchase for the course together with the
// enrollment, all inside one transaction. The purchase row it writes is the
// entitlement the access checks read; it is written once and never mutated.
func (s *service) Buy(ctx context.Context, input BuyInput) (*models.Purchase, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.CourseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if course == nil || !course.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}

	owned, err := s.repo.HasCompletedPurchase(ctx, input.UserID, input.CourseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing purchase")
	}
	if owned {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course already purchased")
	}

	amount := course.Price
	var quote *discounts.Quote
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		quote, err = s.discounts.Validate(ctx, code, input.CourseID, course.Price)
		if err != nil {
			return nil, err
		}
		amount = quote.Final
	}

	transactionID := strings.TrimSpace(input.TransactionID)
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	purchase := &models.Purchase{
		UserID:        input.UserID,
		CourseID:      input.CourseID,
		AmountPaid:    amount,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		TransactionID: transactionID,
		Status:        enums.PurchaseStatusCompleted,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.Create(ctx, purchase); err != nil {
			return err
		}
		if err := repo.CreateEnrollment(ctx, &models.Enrollment{
			UserID:   input.UserID,
			CourseID: input.CourseID,
		}); err != nil {
			return err
		}
		if err := repo.IncrementEnrollmentCount(ctx, input.CourseID); err != nil {
			return err
		}
		if quote != nil {
			if err := s.discounts.Apply(ctx, quote.Discount.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record purchase")
	}

	s.notifyPurchase(ctx, input.UserID, course)
	s.recordPurchase(ctx, input.UserID, course)
	return purchase, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return rows, nil
}

// The notification is outside the transaction on purpose: a failed insert
// must not roll back a completed purchase.
func (s *service) notifyPurchase(ctx context.Context, userID uuid.UUID, course *models.Course) {
	err := s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  userID,
		Type:    enums.NotificationTypePurchase,
		Title:   "Course purchased",
		Message: fmt.Sprintf("You now have access to %s", course.Title),
	})
	if err != nil {
		s.logg.Warn(s.logg.WithCourseID(ctx, course.ID.String()), "failed to create purchase notification")
	}
}

func (s *service) recordPurchase(ctx context.Context, userID uuid.UUID, course *models.Course) {
	details := fmt.Sprintf("course %s", course.ID)
	err := s.audit.Record(ctx, activity.RecordInput{
		UserID:  &userID,
		Action:  "course_purchased",
		Details: &details,
		Status:  enums.ActivityStatusSuccess,
	})
	if err != nil {
		s.logg.Warn(s.logg.WithCourseID(ctx, course.ID.String()), "failed to record purchase activity")
	}
}
