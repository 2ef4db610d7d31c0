package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/youssefadel/eduplatform-backend/pkg/enums"
)

// Activity is an append-only audit trail entry.
type Activity struct {
	ID        uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID           `gorm:"column:user_id;type:uuid;index"`
	Action    string               `gorm:"column:action;not null"`
	Details   *string              `gorm:"column:details"`
	Status    enums.ActivityStatus `gorm:"column:status;type:activity_status;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
