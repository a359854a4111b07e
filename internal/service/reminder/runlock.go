package reminder

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "reminder:run-lock"

// RunLock is a Redis SetNX advisory lock around the whole batch. It keeps a
// manually triggered run from overlapping the scheduled one; the log table's
// unique key is the real idempotency guarantee, this just avoids wasted work.
type RunLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRunLock(rdb *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{rdb: rdb, ttl: ttl}
}

// Acquire returns true if this process now holds the run lock.
// When Redis is unavailable the run proceeds anyway; the log table's
// insert-if-absent still prevents double-sends.
func (l *RunLock) Acquire(ctx context.Context) bool {
	ok, err := l.rdb.SetNX(ctx, runLockKey, 1, l.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release drops the lock. TTL expiry covers a crashed holder.
func (l *RunLock) Release(ctx context.Context) {
	_ = l.rdb.Del(ctx, runLockKey).Err()
}
