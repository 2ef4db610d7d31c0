package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course is a sellable bundle of lessons.
type Course struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string           `gorm:"column:title;not null"`
	Description     *string          `gorm:"column:description"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(18,2);not null"`
	University      *string          `gorm:"column:university"`
	ImageURL        *string          `gorm:"column:image_url"`
	Page            string           `gorm:"column:page;not null;default:'page-1'"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	Rating          *decimal.Decimal `gorm:"column:rating;type:numeric(3,2)"`
	EnrollmentCount int              `gorm:"column:enrollment_count;not null;default:0"`
	Lessons         []Lesson         `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
