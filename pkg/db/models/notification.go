package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/enums"
)

// Notification stores a persisted stock alert for the dashboard bell.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID              `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName string                 `gorm:"column:product_name;not null"`
	Type        enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title       string                 `gorm:"type:text;not null"`
	Message     string                 `gorm:"type:text;not null"`
	ReadAt      *time.Time             `gorm:"type:timestamptz"`
	CreatedAt   time.Time              `gorm:"type:timestamptz;default:now()"`
}
