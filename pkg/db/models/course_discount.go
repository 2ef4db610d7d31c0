package models

import "github.com/google/uuid"

// CourseDiscount restricts a discount code to specific courses. A discount
// with no CourseDiscount rows applies to any course.
type CourseDiscount struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;not null;uniqueIndex:idx_course_discounts"`
	CourseID   uuid.UUID `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_course_discounts"`
}
