package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// NotificationRepository persists stock alert notifications.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository builds a repository tied to the provided
// GORM DB.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts the notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// HasUnread reports whether an unread notification already exists for
// the product and alert type. The sweep uses it to avoid stacking
// duplicates in the bell.
func (r *NotificationRepository) HasUnread(ctx context.Context, productID uuid.UUID, alertType enums.NotificationType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("product_id = ?", productID).
		Where("type = ?", alertType).
		Where("read_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// List returns one page of notifications newest first plus the next
// cursor.
func (r *NotificationRepository) List(ctx context.Context, page pagination.Params) ([]models.Notification, string, error) {
	limitWithBuffer := pagination.LimitWithBuffer(page.Limit)

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Notification{})
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Notification
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, page.Limit)

	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rows, nextCursor, nil
}

// MarkRead stamps the notification as read. It reports whether a row
// was updated.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Where("read_at IS NULL").
		Update("read_at", at)
	return res.RowsAffected > 0, res.Error
}

// MarkAllRead stamps every unread notification as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("read_at IS NULL").
		Update("read_at", at)
	return res.RowsAffected, res.Error
}

// CountUnread returns the number of unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

// DeleteReadBefore removes read notifications created before the
// cutoff. The cleanup job runs it nightly.
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read_at IS NOT NULL").
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
