// Package ratelimit enforces per-identity request limits in fixed one minute
// windows on top of an atomic counter store.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
)

const (
	Window    = time.Minute
	KeyTTL    = 90 * time.Second
	keyPrefix = "rate"
)

// CounterStore is the subset of atomic counter primitives the limiter needs.
// Incr on a missing key creates it at 1 without an expiry.
type CounterStore interface {
	SetNX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type Limiter struct {
	store CounterStore
	now   func() time.Time
}

func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

func Key(identity string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, identity, at.Unix()/int64(Window/time.Second))
}

// Allow reports whether identity may make another request in the current
// window. A store failure lets the request through.
func (l *Limiter) Allow(ctx context.Context, identity string, limit int) bool {
	if l == nil || l.store == nil || limit <= 0 {
		return true
	}
	key := Key(identity, l.now())

	set, err := l.store.SetNX(ctx, key, 1, KeyTTL)
	if err != nil {
		return l.failOpen(key, err)
	}
	if set {
		return true
	}

	// admission is decided by the value INCR returns
	n, err := l.store.Incr(ctx, key)
	if err != nil {
		return l.failOpen(key, err)
	}
	if n == 1 {
		// the window key expired between SETNX and INCR
		if err := l.store.Expire(ctx, key, KeyTTL); err != nil {
			logging.ErrorLogger.Warn("failed to set rate counter expiry", zap.String("key", key), zap.Error(err))
		}
	}
	return n <= int64(limit)
}

func (l *Limiter) failOpen(key string, err error) bool {
	logging.ErrorLogger.Warn("rate limit store unavailable, allowing request",
		zap.String("key", key), zap.Error(err))
	return true
}
