package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
)

// Stats is the dashboard landing-page summary.
type Stats struct {
	TotalUsers       int64           `json:"totalUsers"`
	TotalOrders      int64           `json:"totalOrders"`
	TotalProducts    int64           `json:"totalProducts"`
	TodayOrders      int64           `json:"todayOrders"`
	PendingOrders    int64           `json:"pendingOrders"`
	PendingShipments int64           `json:"pendingShipments"`
	DailyRevenue     decimal.Decimal `json:"dailyRevenue"`
	StockAlerts      int             `json:"stockAlerts"`
	ConversionRate   float64         `json:"conversionRate"`
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type orderStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int64, error)
	RevenueSince(ctx context.Context, t time.Time) (decimal.Decimal, error)
}

type productCounter interface {
	Count(ctx context.Context) (int64, error)
}

type pickingStats interface {
	CountByStatus(ctx context.Context, status enums.PickingStatus) (int64, error)
}

type alertSource interface {
	Snapshot(ctx context.Context) ([]alerts.Alert, error)
}

// Service aggregates the landing-page stats.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	users    userCounter
	orders   orderStats
	products productCounter
	picking  pickingStats
	alerts   alertSource
	now      func() time.Time
}

// NewService constructs an overview service instance.
func NewService(users userCounter, orders orderStats, products productCounter, picking pickingStats, alertSvc alertSource) (Service, error) {
	if users == nil || orders == nil || products == nil || picking == nil || alertSvc == nil {
		return nil, fmt.Errorf("all overview data sources are required")
	}
	return &service{
		users:    users,
		orders:   orders,
		products: products,
		picking:  picking,
		alerts:   alertSvc,
		now:      time.Now,
	}, nil
}

// Stats assembles the summary. Today runs from local midnight.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &Stats{DailyRevenue: decimal.Zero}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count users")
	}
	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if stats.TodayOrders, err = s.orders.CountCreatedSince(ctx, startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count today's orders")
	}
	if stats.PendingOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending orders")
	}
	if stats.PendingShipments, err = s.picking.CountByStatus(ctx, enums.PickingStatusRequested); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending shipments")
	}
	if stats.DailyRevenue, err = s.orders.RevenueSince(ctx, startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum daily revenue")
	}

	alertList, err := s.alerts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats.StockAlerts = len(alertList)

	delivered, err := s.orders.CountByStatus(ctx, enums.OrderStatusDelivered)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count delivered orders")
	}
	if stats.TotalOrders > 0 {
		stats.ConversionRate = float64(delivered) / float64(stats.TotalOrders) * 100
	}

	return stats, nil
}
