package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the lock
var ErrLockHeld = errors.New("lock held by another process")

// releaseIfOwner deletes the key only when it still holds our token
var releaseIfOwner = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Lock is a single-holder lease stored in Redis
type Lock struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
}

// NewLock creates a lock for name. Nothing is acquired yet.
func NewLock(client *Client, prefix, name string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    fmt.Sprintf("%s:lock:%s", prefix, name),
		token:  uuid.New().String(),
		ttl:    ttl,
	}
}

// Acquire takes the lease or returns ErrLockHeld. Always succeeds when Redis is
// disabled.
func (l *Lock) Acquire(ctx context.Context) error {
	if !l.client.Enabled() {
		return nil
	}

	ok, err := l.client.Redis().SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release gives the lease back if we still hold it
func (l *Lock) Release(ctx context.Context) error {
	if !l.client.Enabled() {
		return nil
	}

	if err := releaseIfOwner.Run(ctx, l.client.Redis(), []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}

// Key returns the Redis key of the lock
func (l *Lock) Key() string {
	return l.key
}
