package enums

import "fmt"

// OrderStatus tracks a storefront order through fulfillment. The values
// are the Thai labels the storefront renders verbatim, so they are
// stored as-is rather than translated.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "รอดำเนินการ"
	OrderStatusShipping  OrderStatus = "กำลังจัดส่ง"
	OrderStatusDelivered OrderStatus = "จัดส่งสำเร็จ"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipping,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
