package alerts

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/internal/products"
	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

func setupAlertsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddls := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`}
	for _, ddl := range ddls {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

// memoryCache is an in-process stand-in for the redis snapshot cache.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss for %s", key)
	}
	return value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	default:
		return fmt.Errorf("unsupported cache value %T", value)
	}
	c.sets++
	return nil
}

func (c *memoryCache) AlertsCacheKey() string { return "ss:alerts:snapshot" }

type alertsEnv struct {
	svc           Service
	productRepo   *products.Repository
	notifications *NotificationRepository
	cache         *memoryCache
}

func newAlertsEnv(t *testing.T) *alertsEnv {
	t.Helper()
	db := setupAlertsTestDB(t)
	productRepo := products.NewRepository(db)
	notifications := NewNotificationRepository(db)
	cache := newMemoryCache()
	svc, err := NewService(productRepo, notifications, cache, config.AlertsConfig{
		LowStockRatio: 0.2,
		CacheTTL:      time.Minute,
	})
	require.NoError(t, err)
	return &alertsEnv{svc: svc, productRepo: productRepo, notifications: notifications, cache: cache}
}

func (e *alertsEnv) seedProduct(t *testing.T, name string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(100),
		Quantity: quantity,
	}
	require.NoError(t, e.productRepo.Create(context.Background(), product))
	return product
}

func TestSnapshotComputesAndCaches(t *testing.T) {
	env := newAlertsEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "เสื้อยืดสีขาว", 0)
	env.seedProduct(t, "กางเกงยีนส์", 40)

	first, err := env.svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, enums.NotificationTypeOutOfStock, first[0].Type)
	assert.Equal(t, 1, env.cache.sets)

	// A stock change invisible to the cache: the snapshot still serves
	// the cached list until the TTL expires.
	env.seedProduct(t, "รองเท้าผ้าใบ", 0)
	second, err := env.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, env.cache.sets)
}

func TestSnapshotWithoutCache(t *testing.T) {
	env := newAlertsEnv(t)
	db := setupAlertsTestDB(t)
	productRepo := products.NewRepository(db)
	svc, err := NewService(productRepo, env.notifications, nil, config.AlertsConfig{LowStockRatio: 0.2})
	require.NoError(t, err)

	result, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSweepSkipsUnreadDuplicates(t *testing.T) {
	env := newAlertsEnv(t)
	ctx := context.Background()
	empty := env.seedProduct(t, "เสื้อยืดสีขาว", 0)
	env.seedProduct(t, "กางเกงยีนส์", 1)

	created, err := env.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// Second sweep: both alerts still unread, nothing new.
	created, err = env.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// After the out-of-stock alert is read, the next sweep re-raises it.
	page, err := env.svc.ListNotifications(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.EqualValues(t, 2, page.UnreadCount)

	var outOfStockID uuid.UUID
	for _, n := range page.Notifications {
		if n.ProductID == empty.ID {
			outOfStockID = n.ID
		}
	}
	require.NoError(t, env.svc.MarkNotificationRead(ctx, outOfStockID))

	created, err = env.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestSweepNotificationContent(t *testing.T) {
	env := newAlertsEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "แก้วน้ำเก็บอุณหภูมิ", 1)

	_, err := env.svc.Sweep(ctx)
	require.NoError(t, err)

	page, err := env.svc.ListNotifications(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	notification := page.Notifications[0]
	assert.Equal(t, enums.NotificationTypeLowStock, notification.Type)
	assert.Equal(t, "สต็อกต่ำ", notification.Title)
	assert.Equal(t, "แก้วน้ำเก็บอุณหภูมิ เหลือ 1 ชิ้น", notification.Message)
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	env := newAlertsEnv(t)

	err := env.svc.MarkNotificationRead(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCleanupDeletesOnlyOldReadRows(t *testing.T) {
	env := newAlertsEnv(t)
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	readAt := now.Add(-59 * 24 * time.Hour)

	rows := []models.Notification{
		{ID: uuid.New(), ProductID: uuid.New(), ProductName: "a", Type: enums.NotificationTypeLowStock, Title: "t", Message: "m", CreatedAt: old, ReadAt: &readAt},
		{ID: uuid.New(), ProductID: uuid.New(), ProductName: "b", Type: enums.NotificationTypeLowStock, Title: "t", Message: "m", CreatedAt: old},
		{ID: uuid.New(), ProductID: uuid.New(), ProductName: "c", Type: enums.NotificationTypeLowStock, Title: "t", Message: "m", CreatedAt: now, ReadAt: &now},
	}
	for i := range rows {
		require.NoError(t, env.notifications.Create(ctx, &rows[i]))
	}

	deleted, err := env.svc.CleanupNotifications(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	page, err := env.svc.ListNotifications(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
}
