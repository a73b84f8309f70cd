package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/redis"
)

// RedisLock serializes job runs across worker replicas. Each worker
// instance holds a unique owner token so a release can never drop a
// lock another instance re-acquired after expiry.
type RedisLock struct {
	locker redis.Locker
	owner  string
	ttl    time.Duration
}

// NewRedisLock builds a lock helper with a fresh owner token.
func NewRedisLock(locker redis.Locker, ttl time.Duration) (*RedisLock, error) {
	if locker == nil {
		return nil, fmt.Errorf("redis locker required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &RedisLock{locker: locker, owner: uuid.NewString(), ttl: ttl}, nil
}

// Acquire attempts to take the lock for the named job. It reports false
// when another worker already holds it.
func (l *RedisLock) Acquire(ctx context.Context, job string) (bool, error) {
	return l.locker.SetNX(ctx, l.locker.CronLockKey(job), l.owner, l.ttl)
}

// Release frees the lock, but only when this worker still owns it.
func (l *RedisLock) Release(ctx context.Context, job string) error {
	key := l.locker.CronLockKey(job)
	holder, err := l.locker.Get(ctx, key)
	if err != nil {
		// Expired or already released.
		return nil
	}
	if holder != l.owner {
		return nil
	}
	return l.locker.Del(ctx, key)
}
