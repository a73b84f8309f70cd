package enums

import "fmt"

// NotificationType classifies stock alert notifications.
type NotificationType string

const (
	NotificationTypeLowStock   NotificationType = "low_stock"
	NotificationTypeOutOfStock NotificationType = "out_of_stock"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeLowStock,
	NotificationTypeOutOfStock,
}

// notificationTypeLabels maps each type to the Thai badge label the
// dashboard renders.
var notificationTypeLabels = map[NotificationType]string{
	NotificationTypeLowStock:   "สต็อกต่ำ",
	NotificationTypeOutOfStock: "สต็อกหมด",
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// Label returns the Thai display label for the type.
func (n NotificationType) Label() string {
	return notificationTypeLabels[n]
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
