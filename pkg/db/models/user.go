package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FullName     string         `gorm:"column:full_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	University   *string        `gorm:"column:university"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:'user'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the user bypasses entitlement checks.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}
