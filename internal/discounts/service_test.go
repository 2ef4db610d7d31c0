package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

type stubRepo struct {
	discount    *models.Discount
	incrementOK bool
	incremented uuid.UUID
}

func (s *stubRepo) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	return s.discount, nil
}

func (s *stubRepo) IncrementUsage(ctx context.Context, discountID uuid.UUID) (bool, error) {
	s.incremented = discountID
	return s.incrementOK, nil
}

func activeDiscount(kind enums.DiscountKind, value string) *models.Discount {
	now := time.Now()
	return &models.Discount{
		ID:       uuid.New(),
		Code:     "SAVE10",
		Kind:     kind,
		Value:    decimal.RequireFromString(value),
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		IsActive: true,
	}
}

func newDiscountService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestValidatePercentageQuote(t *testing.T) {
	t.Parallel()

	svc := newDiscountService(t, &stubRepo{discount: activeDiscount(enums.DiscountKindPercentage, "25")})

	quote, err := svc.Validate(context.Background(), "SAVE10", uuid.New(), decimal.RequireFromString("200.00"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !quote.Final.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("final = %s, want 150.00", quote.Final)
	}
	if !quote.AmountTaken.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("amount taken = %s, want 50.00", quote.AmountTaken)
	}
}

func TestValidateFixedQuoteFloorsAtZero(t *testing.T) {
	t.Parallel()

	svc := newDiscountService(t, &stubRepo{discount: activeDiscount(enums.DiscountKindFixed, "80")})

	quote, err := svc.Validate(context.Background(), "SAVE10", uuid.New(), decimal.RequireFromString("50.00"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !quote.Final.IsZero() {
		t.Fatalf("final = %s, want 0", quote.Final)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	courseID := uuid.New()
	maxUses := 5
	minAmount := decimal.RequireFromString("100.00")

	cases := []struct {
		name   string
		mutate func(*models.Discount)
		code   pkgerrors.Code
	}{
		{"inactive", func(d *models.Discount) { d.IsActive = false }, pkgerrors.CodeValidation},
		{"not started", func(d *models.Discount) { d.StartsAt = time.Now().Add(time.Hour) }, pkgerrors.CodeValidation},
		{"expired", func(d *models.Discount) { d.EndsAt = time.Now().Add(-time.Minute) }, pkgerrors.CodeValidation},
		{"fully redeemed", func(d *models.Discount) { d.MaxUses = &maxUses; d.UsedCount = 5 }, pkgerrors.CodeValidation},
		{"below minimum", func(d *models.Discount) { d.MinAmount = &minAmount }, pkgerrors.CodeValidation},
		{"wrong course", func(d *models.Discount) {
			d.CourseDiscounts = []models.CourseDiscount{{DiscountID: d.ID, CourseID: uuid.New()}}
		}, pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			discount := activeDiscount(enums.DiscountKindPercentage, "10")
			tc.mutate(discount)
			svc := newDiscountService(t, &stubRepo{discount: discount})

			_, err := svc.Validate(context.Background(), "SAVE10", courseID, decimal.RequireFromString("50.00"))
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestValidateCourseBindingMatch(t *testing.T) {
	t.Parallel()

	courseID := uuid.New()
	discount := activeDiscount(enums.DiscountKindPercentage, "10")
	discount.CourseDiscounts = []models.CourseDiscount{{DiscountID: discount.ID, CourseID: courseID}}
	svc := newDiscountService(t, &stubRepo{discount: discount})

	if _, err := svc.Validate(context.Background(), "SAVE10", courseID, decimal.RequireFromString("50.00")); err != nil {
		t.Fatalf("bound course should validate, got %v", err)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	t.Parallel()

	svc := newDiscountService(t, &stubRepo{discount: nil})
	_, err := svc.Validate(context.Background(), "NOPE", uuid.New(), decimal.RequireFromString("50.00"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("consumes a use", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{incrementOK: true}
		svc := newDiscountService(t, repo)

		id := uuid.New()
		if err := svc.Apply(context.Background(), id); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if repo.incremented != id {
			t.Fatalf("wrong discount incremented")
		}
	})

	t.Run("cap reached is conflict", func(t *testing.T) {
		t.Parallel()
		svc := newDiscountService(t, &stubRepo{incrementOK: false})
		if err := svc.Apply(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}
