package types

import "github.com/shopspring/decimal"

// OrderItem is a line item embedded on orders and picking records.
// It is stored as jsonb, so the unit price is captured at order time
// and never re-read from the product row.
type OrderItem struct {
	ProductID string          `json:"productId" validate:"required,uuid4"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Subtotal is the item quantity priced at the captured unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CustomerInfo is the shipping contact embedded on picking records.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ItemsTotal sums line subtotals for an embedded item list.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
