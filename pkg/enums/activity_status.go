package enums

import "fmt"

// ActivityStatus records the outcome attached to an audit log entry.
type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusError   ActivityStatus = "error"
	ActivityStatusPending ActivityStatus = "pending"
)

var validActivityStatuses = []ActivityStatus{
	ActivityStatusSuccess,
	ActivityStatusError,
	ActivityStatusPending,
}

func (a ActivityStatus) String() string {
	return string(a)
}

// IsValid reports whether the status is known.
func (a ActivityStatus) IsValid() bool {
	for _, candidate := range validActivityStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityStatus converts raw input into an ActivityStatus.
func ParseActivityStatus(value string) (ActivityStatus, error) {
	for _, candidate := range validActivityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity status %q", value)
}
