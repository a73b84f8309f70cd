package cron

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/logger"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// fakeLocker is an in-memory stand-in for the redis lock store.
type fakeLocker struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{values: map[string]string{}}
}

func (f *fakeLocker) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.values[key]; held {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeLocker) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("key %s not found", key)
	}
	return value, nil
}

func (f *fakeLocker) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeLocker) CronLockKey(job string) string { return "ss:cron_lock:" + job }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestRedisLockAcquireRelease(t *testing.T) {
	locker := newFakeLocker()
	ctx := context.Background()

	lock, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)

	acquired, err := lock.Acquire(ctx, "sweep")
	require.NoError(t, err)
	assert.True(t, acquired)

	// Second acquire of a held lock fails, even from the same worker.
	acquired, err = lock.Acquire(ctx, "sweep")
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, lock.Release(ctx, "sweep"))
	acquired, err = lock.Acquire(ctx, "sweep")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLockReleaseKeepsForeignLock(t *testing.T) {
	locker := newFakeLocker()
	ctx := context.Background()

	mine, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)
	other, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)

	acquired, err := other.Acquire(ctx, "sweep")
	require.NoError(t, err)
	require.True(t, acquired)

	// Releasing a lock held by another worker is a no-op.
	require.NoError(t, mine.Release(ctx, "sweep"))
	acquired, err = mine.Acquire(ctx, "sweep")
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRunOnceSkipsWhenLocked(t *testing.T) {
	locker := newFakeLocker()
	ctx := context.Background()

	holder, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)
	acquired, err := holder.Acquire(ctx, "busy")
	require.NoError(t, err)
	require.True(t, acquired)

	lock, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)
	svc, err := NewService(lock, nil, testLogger())
	require.NoError(t, err)

	runs := 0
	svc.RunOnce(ctx, Job{Name: "busy", Interval: time.Minute, Run: func(context.Context) error {
		runs++
		return nil
	}})
	assert.Zero(t, runs)
}

func TestRunOnceReleasesLockAfterRun(t *testing.T) {
	locker := newFakeLocker()
	ctx := context.Background()

	lock, err := NewRedisLock(locker, time.Minute)
	require.NoError(t, err)
	svc, err := NewService(lock, nil, testLogger())
	require.NoError(t, err)

	runs := 0
	job := Job{Name: "sweep", Interval: time.Minute, Run: func(context.Context) error {
		runs++
		return nil
	}}
	svc.RunOnce(ctx, job)
	svc.RunOnce(ctx, job)
	assert.Equal(t, 2, runs)
}

func TestRegisterValidatesJobs(t *testing.T) {
	lock, err := NewRedisLock(newFakeLocker(), time.Minute)
	require.NoError(t, err)
	svc, err := NewService(lock, nil, testLogger())
	require.NoError(t, err)

	noop := func(context.Context) error { return nil }
	assert.Error(t, svc.Register(Job{Interval: time.Minute, Run: noop}))
	assert.Error(t, svc.Register(Job{Name: "x", Run: noop}))
	assert.Error(t, svc.Register(Job{Name: "x", Interval: time.Minute}))
	assert.NoError(t, svc.Register(Job{Name: "x", Interval: time.Minute, Run: noop}))
}

// fakeAlertService counts the service calls the jobs make.
type fakeAlertService struct {
	sweeps   int
	cleanups int
}

func (f *fakeAlertService) Snapshot(context.Context) ([]alerts.Alert, error) { return nil, nil }

func (f *fakeAlertService) Sweep(context.Context) (int, error) {
	f.sweeps++
	return 0, nil
}

func (f *fakeAlertService) ListNotifications(context.Context, pagination.Params) (*alerts.NotificationsPage, error) {
	return nil, nil
}

func (f *fakeAlertService) MarkNotificationRead(context.Context, uuid.UUID) error { return nil }

func (f *fakeAlertService) MarkAllNotificationsRead(context.Context) (int64, error) { return 0, nil }

func (f *fakeAlertService) CleanupNotifications(context.Context, time.Duration) (int64, error) {
	f.cleanups++
	return 0, nil
}

func TestStockAlertSweepJob(t *testing.T) {
	alertSvc := &fakeAlertService{}
	job := NewStockAlertSweepJob(alertSvc, config.CronConfig{StockAlertInterval: 5 * time.Minute})

	assert.Equal(t, JobStockAlertSweep, job.Name)
	assert.Equal(t, 5*time.Minute, job.Interval)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, alertSvc.sweeps)
}

func TestNotificationCleanupJobRespectsQuietHour(t *testing.T) {
	alertSvc := &fakeAlertService{}
	cfg := config.CronConfig{NotificationRetention: 720 * time.Hour, NotificationCleanupHour: 3}

	clock := time.Date(2025, 8, 15, 14, 0, 0, 0, time.UTC)
	job := NewNotificationCleanupJob(alertSvc, cfg, func() time.Time { return clock })

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, alertSvc.cleanups)

	clock = time.Date(2025, 8, 16, 3, 5, 0, 0, time.UTC)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, alertSvc.cleanups)
}
