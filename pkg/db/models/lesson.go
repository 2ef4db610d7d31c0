package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is a single unit of course content. RemoteVideoID holds the opaque
// asset id assigned by the video CDN at upload time; while it is empty the
// lesson has no playable video.
type Lesson struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID      uuid.UUID `gorm:"column:course_id;type:uuid;not null;index"`
	Title         string    `gorm:"column:title;not null"`
	Description   *string   `gorm:"column:description"`
	Position      int       `gorm:"column:position;not null;default:0"`
	Duration      *string   `gorm:"column:duration"`
	RemoteVideoID string    `gorm:"column:remote_video_id;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasVideo reports whether a remote asset is linked.
func (l Lesson) HasVideo() bool {
	return l.RemoteVideoID != ""
}
