package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var (
	// ErrLockBusy is returned when a booking lock is still held after the wait.
	ErrLockBusy = errors.New("booking lock is held by another request")
	// ErrLockLost is returned by release when the lock expired before it.
	ErrLockLost = errors.New("booking lock expired before release")
)

// KeyLocker serializes writers that share a key. The returned release func
// must be called once the protected write is done.
type KeyLocker interface {
	Acquire(ctx context.Context, key string) (release func() error, err error)
}

const bookingLockPrefix = "lock:booking:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a lock as a SET NX key with a TTL. The value is a random
// token so only the holder can release it; an expired lock is simply gone.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisLocker{client: client, ttl: ttl, wait: wait, poll: 50 * time.Millisecond}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	key = bookingLockPrefix + key
	token := uuid.New().String()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
				if err != nil {
					return fmt.Errorf("release %s: %w", key, err)
				}
				if n == 0 {
					return ErrLockLost
				}
				return nil
			}, nil
		}
		if !time.Now().Add(l.poll).Before(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}
}

// LockKey is the key booking writes for one professional's day share.
func LockKey(professionalID, date string) string {
	return professionalID + ":" + date
}
