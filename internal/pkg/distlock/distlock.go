// Package distlock provides named distributed locks. The master rebuild
// must never run twice concurrently (two rebuilds racing on the same email
// would produce a non-deterministic winner), so the reconcile service
// guards it with a lock keyed on the master table.
//
// Redis is the preferred backend when configured; otherwise a PostgreSQL
// advisory lock on the service's own database is used.
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a named mutual-exclusion lock. A Lock instance is intended for
// use from a single goroutine; concurrent holders need separate instances.
type Lock interface {
	// TryAcquire attempts to take the lock without blocking.
	// Returns true when the lock was taken.
	TryAcquire(ctx context.Context) (bool, error)
	// Release gives the lock back if this instance still owns it.
	Release(ctx context.Context) error
}

// New picks the best available backend: Redis when a client is provided,
// PostgreSQL advisory locks otherwise.
func New(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) Lock {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewAdvisoryLock(db, key)
}

// AdvisoryLock implements Lock with pg_try_advisory_lock /
// pg_advisory_unlock. Advisory locks are session-scoped, so a dropped
// connection releases the lock, which gives crash-safety comparable to a
// Redis TTL.
type AdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewAdvisoryLock derives a deterministic 64-bit lock ID from the key.
func NewAdvisoryLock(db *sql.DB, key string) *AdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &AdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

// TryAcquire attempts the advisory lock without blocking.
func (l *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired)
	return acquired, err
}

// Release releases the advisory lock.
func (l *AdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
