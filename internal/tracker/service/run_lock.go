package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes the lock only when the caller still owns it, so
// a run that outlived its TTL cannot release a newer holder's lock.
const releaseLockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// runLock is a redis SETNX lock with an owner token. The TTL is the crash
// recovery: a process that dies mid-run frees the pipeline once it expires.
type runLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func newRunLock(client *redis.Client, key string, ttl time.Duration) *runLock {
	return &runLock{client: client, key: key, ttl: ttl}
}

// Acquire tries to take the lock. It returns the owner token and whether
// the lock was obtained; a held lock is not an error.
func (l *runLock) Acquire(ctx context.Context) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still owns it.
func (l *runLock) Release(ctx context.Context, token string) error {
	return l.client.Eval(ctx, releaseLockScript, []string{l.key}, token).Err()
}
