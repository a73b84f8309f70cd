package enums

import "fmt"

// PickingStatus tracks a picking record from the initial stock request
// through delivery. Values are the Thai labels shown in the dashboard.
type PickingStatus string

const (
	PickingStatusRequested  PickingStatus = "แจ้งเบิก"
	PickingStatusPending    PickingStatus = "รอดำเนินการ"
	PickingStatusDispatched PickingStatus = "จัดส่งแล้ว"
	PickingStatusDelivered  PickingStatus = "จัดส่งสำเร็จ"
)

var validPickingStatuses = []PickingStatus{
	PickingStatusRequested,
	PickingStatusPending,
	PickingStatusDispatched,
	PickingStatusDelivered,
}

// String implements fmt.Stringer.
func (p PickingStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PickingStatus.
func (p PickingStatus) IsValid() bool {
	for _, candidate := range validPickingStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePickingStatus converts raw input into a PickingStatus.
func ParsePickingStatus(value string) (PickingStatus, error) {
	for _, candidate := range validPickingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid picking status %q", value)
}
