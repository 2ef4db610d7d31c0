package controllers

import (
	"net/http"

	"github.com/youssefadel/eduplatform-backend/api/responses"
	"github.com/youssefadel/eduplatform-backend/api/validators"
	purchasesvc "github.com/youssefadel/eduplatform-backend/internal/purchases"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

type buyCourseRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	TransactionID string `json:"transaction_id,omitempty"`
	DiscountCode  string `json:"discount_code,omitempty"`
}

// BuyCourse purchases the course in the route for the authenticated user.
func BuyCourse(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		courseID, err := pathUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body buyCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.Buy(r.Context(), purchasesvc.BuyInput{
			UserID:        userID,
			CourseID:      courseID,
			PaymentMethod: body.PaymentMethod,
			TransactionID: body.TransactionID,
			DiscountCode:  body.DiscountCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}
