package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore создаёт хранилище счётчиков поверх Redis из URL
// (например, redis://:pass@host:6379/0). Если prefix пустой —
// используется "auth:rl:".
func NewRedisStore(redisURL, prefix string) (Store, error) {
	if prefix == "" {
		prefix = "auth:rl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *redisStore) key(k string) string { return s.prefix + k }

func (s *redisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := s.key(key)

	// INCR + EXPIRE NX в одном pipeline: TTL выставляется только
	// первой попыткой в окне, последующие его не продлевают.
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	d := ttl.Val()
	if d < 0 {
		d = window
	}

	return incr.Val(), d, nil
}

func (s *redisStore) Status(ctx context.Context, key string) (int64, time.Duration, error) {
	k := s.key(key)

	pipe := s.rdb.TxPipeline()
	get := pipe.Get(ctx, k)
	ttl := pipe.TTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		if err == redis.Nil {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	count, err := get.Int64()
	if err != nil {
		return 0, 0, err
	}

	d := ttl.Val()
	if d < 0 {
		d = 0
	}

	return count, d, nil
}

func (s *redisStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *redisStore) Close() error { return s.rdb.Close() }
