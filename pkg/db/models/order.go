package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

// Order is a storefront order surfaced in the back office. Line items
// are embedded jsonb snapshots priced at order time.
type Order struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string             `gorm:"column:order_number;not null;uniqueIndex"`
	Customer         types.CustomerInfo `gorm:"column:customer;type:jsonb;serializer:json"`
	Items            []types.OrderItem  `gorm:"column:items;type:jsonb;serializer:json"`
	Total            decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	Status           enums.OrderStatus  `gorm:"column:status;type:text;not null"`
	SlipURL          *string            `gorm:"column:slip_url"`
	ShippingProvider *string            `gorm:"column:shipping_provider"`
	TrackingNumber   *string            `gorm:"column:tracking_number"`
	AssignedStaffID  *uuid.UUID         `gorm:"column:assigned_staff_id;type:uuid"`
	DeliveredAt      *time.Time         `gorm:"column:delivered_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
