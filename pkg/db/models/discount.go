package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// Discount is a redeemable code applied at purchase time.
type Discount struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string             `gorm:"column:code;not null;uniqueIndex"`
	Kind            enums.DiscountKind `gorm:"column:kind;type:discount_kind;not null"`
	Value           decimal.Decimal    `gorm:"column:value;type:numeric(18,2);not null"`
	MinAmount       *decimal.Decimal   `gorm:"column:min_amount;type:numeric(18,2)"`
	MaxUses         *int               `gorm:"column:max_uses"`
	UsedCount       int                `gorm:"column:used_count;not null;default:0"`
	StartsAt        time.Time          `gorm:"column:starts_at;not null"`
	EndsAt          time.Time          `gorm:"column:ends_at;not null"`
	IsActive        bool               `gorm:"column:is_active;not null;default:true"`
	CourseDiscounts []CourseDiscount   `gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}
