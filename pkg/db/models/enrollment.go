package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Enrollment tracks a user's progress through a purchased course.
type Enrollment struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID           uuid.UUID        `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	EnrolledAt         time.Time        `gorm:"column:enrolled_at;autoCreateTime"`
	IsCompleted        bool             `gorm:"column:is_completed;not null;default:false"`
	CompletedAt        *time.Time       `gorm:"column:completed_at"`
	ProgressPercentage *decimal.Decimal `gorm:"column:progress_percentage;type:numeric(5,2)"`
}
