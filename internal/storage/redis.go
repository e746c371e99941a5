package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each value as a plain Redis string under prefix+key.
type RedisKV struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	return &RedisKV{rdb: rdb, prefix: prefix}
}

// Key Generation Helper
func (r *RedisKV) key(k string) string { return r.prefix + k }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("could not get %q from redis: %w", key, err)
	}
	return val, nil
}

// Set overwrites the value without expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("could not set %q in redis: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
