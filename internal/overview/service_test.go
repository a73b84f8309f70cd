package overview

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/pkg/enums"
)

type fakeUsers struct{ count int64 }

func (f fakeUsers) Count(context.Context) (int64, error) { return f.count, nil }

type fakeOrders struct {
	total      int64
	byStatus   map[enums.OrderStatus]int64
	todayCount int64
	revenue    decimal.Decimal
}

func (f fakeOrders) Count(context.Context) (int64, error) { return f.total, nil }

func (f fakeOrders) CountByStatus(_ context.Context, status enums.OrderStatus) (int64, error) {
	return f.byStatus[status], nil
}

func (f fakeOrders) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return f.todayCount, nil
}

func (f fakeOrders) RevenueSince(context.Context, time.Time) (decimal.Decimal, error) {
	return f.revenue, nil
}

type fakeProducts struct{ count int64 }

func (f fakeProducts) Count(context.Context) (int64, error) { return f.count, nil }

type fakePicking struct{ requested int64 }

func (f fakePicking) CountByStatus(_ context.Context, status enums.PickingStatus) (int64, error) {
	if status == enums.PickingStatusRequested {
		return f.requested, nil
	}
	return 0, nil
}

type fakeAlerts struct{ list []alerts.Alert }

func (f fakeAlerts) Snapshot(context.Context) ([]alerts.Alert, error) { return f.list, nil }

func TestStatsAggregatesAllSources(t *testing.T) {
	svc, err := NewService(
		fakeUsers{count: 4},
		fakeOrders{
			total: 20,
			byStatus: map[enums.OrderStatus]int64{
				enums.OrderStatusPending:   3,
				enums.OrderStatusDelivered: 15,
			},
			todayCount: 5,
			revenue:    decimal.NewFromInt(12500),
		},
		fakeProducts{count: 42},
		fakePicking{requested: 2},
		fakeAlerts{list: []alerts.Alert{
			{ProductID: uuid.New(), Type: enums.NotificationTypeOutOfStock},
		}},
	)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalUsers)
	assert.EqualValues(t, 20, stats.TotalOrders)
	assert.EqualValues(t, 42, stats.TotalProducts)
	assert.EqualValues(t, 5, stats.TodayOrders)
	assert.EqualValues(t, 3, stats.PendingOrders)
	assert.EqualValues(t, 2, stats.PendingShipments)
	assert.True(t, stats.DailyRevenue.Equal(decimal.NewFromInt(12500)))
	assert.Equal(t, 1, stats.StockAlerts)
	assert.InDelta(t, 75.0, stats.ConversionRate, 0.001)
}

func TestStatsHandlesEmptyShop(t *testing.T) {
	svc, err := NewService(fakeUsers{}, fakeOrders{revenue: decimal.Zero}, fakeProducts{}, fakePicking{}, fakeAlerts{})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.ConversionRate)
	assert.True(t, stats.DailyRevenue.IsZero())
}

func TestNewServiceRequiresSources(t *testing.T) {
	_, err := NewService(nil, fakeOrders{}, fakeProducts{}, fakePicking{}, fakeAlerts{})
	require.Error(t, err)
}
