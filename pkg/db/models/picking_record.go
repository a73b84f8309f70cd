package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

// PickingRecord is a staff stock request that moves through the picking
// pipeline. StockDeducted guards the one-shot ledger decrement taken
// when the first tracking number is committed.
type PickingRecord struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          *uuid.UUID          `gorm:"column:order_id;type:uuid"`
	StaffID          uuid.UUID           `gorm:"column:staff_id;type:uuid;not null;index"`
	StaffName        string              `gorm:"column:staff_name;not null"`
	Customer         types.CustomerInfo  `gorm:"column:customer;type:jsonb;serializer:json"`
	Items            []types.OrderItem   `gorm:"column:items;type:jsonb;serializer:json"`
	Total            decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Status           enums.PickingStatus `gorm:"column:status;type:text;not null"`
	ShippingProvider *string             `gorm:"column:shipping_provider"`
	TrackingNumber   *string             `gorm:"column:tracking_number"`
	StockDeducted    bool                `gorm:"column:stock_deducted;not null;default:false"`
	DispatchedAt     *time.Time          `gorm:"column:dispatched_at"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
