package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// catalogLister is the slice of the product repository the alert scan
// needs.
type catalogLister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// snapshotCache caches the computed alert list between dashboard polls.
type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	AlertsCacheKey() string
}

// NotificationsPage is one page of persisted notifications.
type NotificationsPage struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	NextCursor    string                `json:"nextCursor,omitempty"`
}

// Service surfaces stock alerts and the persisted notification feed.
type Service interface {
	Snapshot(ctx context.Context) ([]Alert, error)
	Sweep(ctx context.Context) (int, error)
	ListNotifications(ctx context.Context, page pagination.Params) (*NotificationsPage, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
	CleanupNotifications(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	catalog       catalogLister
	notifications *NotificationRepository
	cache         snapshotCache
	cfg           config.AlertsConfig
	now           func() time.Time
}

// NewService constructs an alert service. The cache is optional: a nil
// cache disables snapshot caching.
func NewService(catalog catalogLister, notifications *NotificationRepository, cache snapshotCache, cfg config.AlertsConfig) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{
		catalog:       catalog,
		notifications: notifications,
		cache:         cache,
		cfg:           cfg,
		now:           time.Now,
	}, nil
}

// Snapshot returns the current alert list, served from the cache when a
// fresh snapshot exists. Cache failures fall through to a live scan.
func (s *service) Snapshot(ctx context.Context) ([]Alert, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.AlertsCacheKey()); err == nil {
			var cached []Alert
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			// Best effort: a failed cache write never fails the request.
			_ = s.cache.Set(ctx, s.cache.AlertsCacheKey(), payload, s.cfg.CacheTTL)
		}
	}
	return result, nil
}

// Sweep persists the current alerts as notifications, skipping products
// that already carry an unread notification of the same type. It
// returns how many notifications were created.
func (s *service) Sweep(ctx context.Context) (int, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, alert := range result {
		exists, err := s.notifications.HasUnread(ctx, alert.ProductID, alert.Type)
		if err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check unread notification")
		}
		if exists {
			continue
		}

		notification := &models.Notification{
			ID:          uuid.New(),
			ProductID:   alert.ProductID,
			ProductName: alert.ProductName,
			Type:        alert.Type,
			Title:       alert.Label,
			Message:     notificationMessage(alert),
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notification")
		}
		created++
	}
	return created, nil
}

func (s *service) ListNotifications(ctx context.Context, page pagination.Params) (*NotificationsPage, error) {
	rows, nextCursor, err := s.notifications.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notifications")
	}
	unread, err := s.notifications.CountUnread(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread notifications")
	}
	return &NotificationsPage{Notifications: rows, UnreadCount: unread, NextCursor: nextCursor}, nil
}

func (s *service) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	updated, err := s.notifications.MarkRead(ctx, id, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notification read")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unread notification not found")
	}
	return nil
}

func (s *service) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notifications read")
	}
	return updated, nil
}

func (s *service) CleanupNotifications(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	deleted, err := s.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cleanup notifications")
	}
	return deleted, nil
}

func (s *service) compute(ctx context.Context) ([]Alert, error) {
	catalog, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return Compute(catalog, s.cfg.LowStockRatio), nil
}

func notificationMessage(alert Alert) string {
	if alert.Type == enums.NotificationTypeOutOfStock {
		return fmt.Sprintf("%s หมดสต็อกแล้ว", alert.ProductName)
	}
	return fmt.Sprintf("%s เหลือ %d ชิ้น", alert.ProductName, alert.Quantity)
}
