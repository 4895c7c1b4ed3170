package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	keyPrefix    = "queuewise:lock:queue:"
	retryBackoff = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by someone else is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrNotAcquired = errors.New("queue lock not acquired")

// RedisLocker shares per-queue locks between processes with SET NX PX.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	logger   *logrus.Logger
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *RedisLocker {
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		newToken: uuid.NewString,
	}
}

func lockKey(queueID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, queueID)
}

// Lock retries until the key is free. Waiting is capped at the lock TTL, after
// which ErrNotAcquired is returned. The key is not renewed: a holder that runs past
// the TTL loses exclusivity, and only the row lock (postgres) or the conditional
// status writes still guard the queue.
func (r *RedisLocker) Lock(ctx context.Context, queueID uint) (func(), error) {
	key := lockKey(queueID)
	token := r.newToken()

	waitCtx, cancel := context.WithTimeout(ctx, r.ttl)
	defer cancel()

	for {
		ok, err := r.client.SetNX(waitCtx, key, token, r.ttl).Result()
		if err != nil {
			return nil, errors.Wrap(err, "lock : redis SETNX failed")
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			return nil, ErrNotAcquired
		case <-time.After(retryBackoff):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := r.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("queue_id", queueID).Warn("failed to release queue lock")
		}
	}, nil
}

// NewRedisClient builds a client and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "lock : failed to connect to redis")
	}
	return client, nil
}
