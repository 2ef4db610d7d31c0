package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
)

// RegisterRequest carries a new account payload.
type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FullName   string  `json:"full_name" validate:"required"`
	Phone      *string `json:"phone,omitempty"`
	University *string `json:"university,omitempty"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the user shape returned from auth endpoints.
type UserSummary struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	University  *string    `json:"university,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse bundles the minted token with the authenticated user.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

// NewUserSummary maps a user row to its API shape.
func NewUserSummary(user *models.User) UserSummary {
	return UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role.String(),
		University:  user.University,
		LastLoginAt: user.LastLoginAt,
	}
}
