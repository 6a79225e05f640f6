package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type defaultRepo struct {
	rdb *redis.Client
}

func newDefaultRepo(rdb *redis.Client) Default {
	return &defaultRepo{
		rdb: rdb,
	}
}

func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, key, valueJSON, ttl).Err()
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.rdb.Get(ctx, key)
}

// Get returns the cached value for key, or redis.Nil on a miss. A cached
// literal "null" is treated as a miss: absence is never served as a hit.
func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	value, err := r.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	if value == "null" {
		return nil, redis.Nil
	}

	var result T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func GetMany[T any](r Default, ctx context.Context, key string) ([]*T, error) {
	value, err := r.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	if value == "null" {
		return nil, redis.Nil
	}

	var result []*T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.rdb.Del(ctx, keys...)
}

// DelPattern evicts every key matching pattern. Write paths call this for
// paginated listings where the exact set of live keys is unknown.
func (r *defaultRepo) DelPattern(ctx context.Context, pattern string) error {
	keys, err := r.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	return r.rdb.Del(ctx, keys...).Err()
}

// EvictAll drops every cached entry. The next read of any key re-runs its
// producer.
func (r *defaultRepo) EvictAll(ctx context.Context) error {
	return r.rdb.FlushDB(ctx).Err()
}

func (r *defaultRepo) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	return r.rdb.Keys(ctx, pattern)
}
