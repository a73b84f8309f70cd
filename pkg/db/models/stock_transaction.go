package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/enums"
)

// StockTransaction is one immutable row of the stock ledger. Product
// name and remaining stock are snapshots taken at write time, so ledger
// history stays readable after the product row changes or is deleted.
// There is deliberately no foreign key to products.
//
// Quantity is the signed delta applied to the product: positive for
// stock_in, negative for stock_out. ReferenceID links the entry to the
// record that caused it: the product id for catalog adjustments, the
// order id for shipment decrements (the picking record id when no order
// is linked).
type StockTransaction struct {
	ID             uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID                  `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName    string                     `gorm:"column:product_name;not null"`
	Type           enums.StockTransactionType `gorm:"column:type;type:text;not null"`
	Quantity       int                        `gorm:"column:quantity;not null"`
	RemainingStock int                        `gorm:"column:remaining_stock;not null"`
	Reason         string                     `gorm:"column:reason;not null"`
	ReferenceID    uuid.UUID                  `gorm:"column:reference_id;type:uuid;not null;index"`
	StaffID        *uuid.UUID                 `gorm:"column:staff_id;type:uuid"`
	StaffName      string                     `gorm:"column:staff_name;not null;default:''"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
