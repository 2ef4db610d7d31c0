package enums

import "fmt"

// NotificationType labels the notifications delivered to users.
type NotificationType string

const (
	NotificationTypePurchase     NotificationType = "purchase"
	NotificationTypeCourseUpdate NotificationType = "course_update"
	NotificationTypeSystem       NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypePurchase,
	NotificationTypeCourseUpdate,
	NotificationTypeSystem,
}

func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the type is known.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
