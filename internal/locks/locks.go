// internal/locks/locks.go

// Package locks provides a small per-key mutex backed by Redis. The
// candidature engine takes one per offer around its read-check-write
// sequence, turning the capacity cap from best-effort into strict.
package locks

import (
	"context"
	"time"

	"stageconnect/internal/common/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 5 * time.Second
	retryInterval = 50 * time.Millisecond
	acquireWindow = 3 * time.Second
)

// releaseScript deletes the lock only if we still own it.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "lock:"}
}

// WithLock runs fn while holding the named lock. Acquisition polls with a
// short interval and gives up after the acquire window.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	token := uuid.New().String()
	fullKey := l.prefix + key

	deadline := time.Now().Add(acquireWindow)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, lockTTL).Result()
		if err != nil {
			return errors.NewInternalError(err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return errors.NewConflictError("opération concurrente en cours, veuillez réessayer")
		}
		select {
		case <-ctx.Done():
			return errors.NewInternalError(ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	defer l.client.Eval(context.WithoutCancel(ctx), releaseScript, []string{fullKey}, token)
	return fn()
}

// NopLocker is a pass-through for deployments without Redis; the database
// uniqueness constraint remains the backstop.
type NopLocker struct{}

func (NopLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	return fn()
}
