package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, func() {
		client.Close()
		mr.Close()
	}
}

func TestRedisLockMutualExclusion(t *testing.T) {
	client, cleanup := newTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	first := NewRedisLock(client, "rebuild", time.Minute)
	second := NewRedisLock(client, "rebuild", time.Minute)

	ok, err := first.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if !ok {
		t.Fatal("first holder could not take a free lock")
	}

	ok, err = second.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if ok {
		t.Fatal("second holder took a held lock")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	ok, err = second.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("TryAcquire() after release error = %v", err)
	}
	if !ok {
		t.Fatal("lock not available after release")
	}
}

func TestRedisLockReleaseOnlyByOwner(t *testing.T) {
	client, cleanup := newTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	owner := NewRedisLock(client, "rebuild", time.Minute)
	intruder := NewRedisLock(client, "rebuild", time.Minute)

	if ok, _ := owner.TryAcquire(ctx); !ok {
		t.Fatal("owner could not take a free lock")
	}

	// A different instance has a different token; its release is a no-op.
	if err := intruder.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if ok, _ := intruder.TryAcquire(ctx); ok {
		t.Fatal("lock was stolen by a foreign release")
	}
}

func TestRedisLockKeyIsolation(t *testing.T) {
	client, cleanup := newTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	a := NewRedisLock(client, "rebuild", time.Minute)
	b := NewRedisLock(client, "other", time.Minute)

	if ok, _ := a.TryAcquire(ctx); !ok {
		t.Fatal("could not take lock a")
	}
	if ok, _ := b.TryAcquire(ctx); !ok {
		t.Fatal("locks on different keys must not contend")
	}
}

func TestNewPrefersRedis(t *testing.T) {
	client, cleanup := newTestRedis(t)
	defer cleanup()

	if _, ok := New(client, nil, "k", time.Minute).(*RedisLock); !ok {
		t.Error("New() with a Redis client should return a RedisLock")
	}
	if _, ok := New(nil, nil, "k", time.Minute).(*AdvisoryLock); !ok {
		t.Error("New() without Redis should fall back to advisory locks")
	}
}
