package cron

import (
	"context"
	"time"

	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/pkg/config"
)

const (
	// JobStockAlertSweep persists low/out-of-stock notifications.
	JobStockAlertSweep = "stock_alert_sweep"
	// JobNotificationCleanup prunes old read notifications.
	JobNotificationCleanup = "notification_cleanup"
)

// NewStockAlertSweepJob scans the catalog and persists stock alert
// notifications on the configured interval.
func NewStockAlertSweepJob(alertSvc alerts.Service, cfg config.CronConfig) Job {
	return Job{
		Name:     JobStockAlertSweep,
		Interval: cfg.StockAlertInterval,
		Run: func(ctx context.Context) error {
			_, err := alertSvc.Sweep(ctx)
			return err
		},
	}
}

// NewNotificationCleanupJob deletes read notifications older than the
// retention window. The job ticks hourly but only acts during the
// configured quiet hour.
func NewNotificationCleanupJob(alertSvc alerts.Service, cfg config.CronConfig, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name:     JobNotificationCleanup,
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			if now().Hour() != cfg.NotificationCleanupHour {
				return nil
			}
			_, err := alertSvc.CleanupNotifications(ctx, cfg.NotificationRetention)
			return err
		},
	}
}
