package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by a Locker without a Redis client.
var ErrNotConfigured = errors.New("lock: redis client not configured")

const keyPrefix = "lock:"

// releaseScript deletes the key only while it still holds our token, so an expired
// lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)

// Locker serialises work across processes, such as concurrent seed runs from several
// deploy replicas.
type Locker struct {
	R          *redis.Client
	RetryEvery time.Duration
}

// Do runs fn while holding the named lock for at most ttl. It waits for the lock until
// ctx is done.
func (l Locker) Do(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error {
	if l.R == nil {
		return ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	retry := l.RetryEvery
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	key := keyPrefix + name
	token := uuid.NewString()

	for {
		ok, err := l.R.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			break
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.R, []string{key}, token).Err()
	}()
	return fn(ctx)
}
