package locks

import (
	"context"

	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

type RedisLocker struct {
	client   redis.Cmdable
	opts     Options
	log      *logger.Logger
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable, opts Options, log *logger.Logger) *RedisLocker {
	return &RedisLocker{
		client:   client,
		opts:     opts.withDefaults(),
		log:      log.With("redis_locker"),
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	token := l.newToken()

	err := poll(ctx, l.opts, func(ctx context.Context) (bool, error) {
		return l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.CodeConflict) {
			l.log.Error("Failed to acquire slot lock", "lock_id", key, "error", err)
		}
		return nil, err
	}

	return func(ctx context.Context) error {
		err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err()
		if err != nil {
			l.log.Warn("Failed to release slot lock", "lock_id", key, "error", err)
		}
		return err
	}, nil
}
