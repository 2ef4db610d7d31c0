package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// Purchase records a user buying a course. A completed purchase is the
// entitlement that grants access to every lesson of the course; rows are
// written once by the purchase flow and never mutated afterwards.
type Purchase struct {
	ID            uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index:idx_purchases_user_course"`
	CourseID      uuid.UUID            `gorm:"column:course_id;type:uuid;not null;index:idx_purchases_user_course"`
	AmountPaid    decimal.Decimal      `gorm:"column:amount_paid;type:numeric(18,2);not null"`
	PaymentMethod string               `gorm:"column:payment_method;not null"`
	TransactionID string               `gorm:"column:transaction_id;not null"`
	Status        enums.PurchaseStatus `gorm:"column:status;type:purchase_status;not null"`
	PurchasedAt   time.Time            `gorm:"column:purchased_at;autoCreateTime"`
}
