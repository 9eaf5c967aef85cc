package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelter-sync/core/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// ErrNotAcquired is returned when the lock is held by someone else.
	ErrNotAcquired = errors.New("lock not acquired")
	// ErrNotHeld is returned when releasing a lock that expired or changed owner.
	ErrNotHeld = errors.New("lock not held")
)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Lock is a held lock.
type Lock struct {
	rdb   redis.Cmdable
	key   string
	value string
}

// Key returns the full Redis key.
func (l *Lock) Key() string {
	return l.key
}

// Release deletes the lock only if this holder still owns it.
func (l *Lock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.value).Int64()
	if err != nil {
		return err
	}
	if result == 0 {
		return ErrNotHeld
	}
	return nil
}

// Extend resets the expiry to ttl only if this holder still owns the lock.
func (l *Lock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.rdb, []string{l.key}, l.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if result == 0 {
		return ErrNotHeld
	}
	return nil
}

// Locker provides SET NX based locks.
type Locker struct {
	rdb       redis.Cmdable
	keyPrefix string
	logger    *zap.Logger
}

// NewLocker creates a Locker on top of an existing client.
func NewLocker(rdb redis.Cmdable, keyPrefix string, logger *zap.Logger) *Locker {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locker{rdb: rdb, keyPrefix: keyPrefix, logger: logger}
}

// Connect creates a Redis client from cfg and verifies it with PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// Acquire attempts to take the lock once.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	lockKey := l.keyPrefix + key
	lockValue := uuid.New().String()

	ok, err := l.rdb.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		metrics.LockAttempts.WithLabelValues(key, "error").Inc()
		return nil, err
	}
	if !ok {
		metrics.LockAttempts.WithLabelValues(key, "held").Inc()
		return nil, ErrNotAcquired
	}

	metrics.LockAttempts.WithLabelValues(key, "acquired").Inc()
	l.logger.Debug("Acquired lock", zap.String("key", lockKey))
	return &Lock{rdb: l.rdb, key: lockKey, value: lockValue}, nil
}

// WithLock executes fn while holding the lock. The lease is renewed every ttl/3
// until fn returns; if a renewal finds the lock gone, fn's context is cancelled.
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	lk, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}

	fnCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		l.keepAlive(fnCtx, lk, ttl, done, cancel)
	}()

	defer func() {
		close(done)
		<-renewed
		cancel()
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil {
			l.logger.Warn("Failed to release lock", zap.String("key", lk.key), zap.Error(err))
		}
	}()

	return fn(fnCtx)
}

func (l *Locker) keepAlive(ctx context.Context, lk *Lock, ttl time.Duration, done <-chan struct{}, lost context.CancelFunc) {
	name := strings.TrimPrefix(lk.key, l.keyPrefix)
	interval := ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := lk.Extend(ctx, ttl)
			switch {
			case err == nil:
				metrics.LockAttempts.WithLabelValues(name, "renewed").Inc()
			case errors.Is(err, ErrNotHeld):
				metrics.LockAttempts.WithLabelValues(name, "lost").Inc()
				l.logger.Error("Lock lost while held; cancelling", zap.String("key", lk.key))
				lost()
				return
			default:
				// Transient: the lease is still valid until ttl, retry on the next tick.
				l.logger.Warn("Failed to renew lock", zap.String("key", lk.key), zap.Error(err))
			}
		}
	}
}
