package discounts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is the outcome of validating a discount code against a course price.
type Quote struct {
	Discount    *models.Discount
	Original    decimal.Decimal
	Final       decimal.Decimal
	AmountTaken decimal.Decimal
}

// Service validates and applies discount codes.
type Service interface {
	Validate(ctx context.Context, code string, courseID uuid.UUID, amount decimal.Decimal) (*Quote, error)
	Apply(ctx context.Context, discountID uuid.UUID) error
}

type repository interface {
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
	IncrementUsage(ctx context.Context, discountID uuid.UUID) (bool, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService wires the discounts service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "discounts repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Validate checks every redemption rule and returns the priced quote without
// consuming a use. Callers that go on to complete a purchase call Apply.
func (s *service) Validate(ctx context.Context, code string, courseID uuid.UUID, amount decimal.Decimal) (*Quote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code required")
	}

	discount, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount")
	}
	if discount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
	}

	now := s.now()
	switch {
	case !discount.IsActive:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is inactive")
	case now.Before(discount.StartsAt):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is not active yet")
	case now.After(discount.EndsAt):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code has expired")
	}

	if discount.MaxUses != nil && discount.UsedCount >= *discount.MaxUses {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is fully redeemed")
	}
	if discount.MinAmount != nil && amount.LessThan(*discount.MinAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount below discount minimum")
	}
	if len(discount.CourseDiscounts) > 0 && !coversCourse(discount, courseID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code does not apply to this course")
	}

	final := priceAfterDiscount(discount, amount)
	return &Quote{
		Discount:    discount,
		Original:    amount,
		Final:       final,
		AmountTaken: amount.Sub(final),
	}, nil
}

// Apply consumes one use of the discount. The increment is conditional on the
// usage cap so two concurrent purchases cannot both take the last redemption.
func (s *service) Apply(ctx context.Context, discountID uuid.UUID) error {
	if discountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount id required")
	}
	ok, err := s.repo.IncrementUsage(ctx, discountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply discount")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "discount code is fully redeemed")
	}
	return nil
}

func coversCourse(discount *models.Discount, courseID uuid.UUID) bool {
	for _, binding := range discount.CourseDiscounts {
		if binding.CourseID == courseID {
			return true
		}
	}
	return false
}

func priceAfterDiscount(discount *models.Discount, amount decimal.Decimal) decimal.Decimal {
	var final decimal.Decimal
	switch discount.Kind {
	case enums.DiscountKindPercentage:
		final = amount.Sub(amount.Mul(discount.Value).Div(oneHundred)).Round(2)
	case enums.DiscountKindFixed:
		final = amount.Sub(discount.Value)
	default:
		return amount
	}
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
