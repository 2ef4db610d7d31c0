package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem marks a course a user wants to buy later.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_course"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_course"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
