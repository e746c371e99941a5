package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Supported STORAGE_DRIVER values.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and locates a KV backend.
type Options struct {
	Driver       string
	DatabasePath string
	BoltPath     string
	RedisAddr    string
	RedisPrefix  string
}

// Open builds the KV named by opts.Driver.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case DriverBolt, "":
		kv, err := OpenBolt(opts.BoltPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Opened bolt storage.", "path", opts.BoltPath)
		return kv, nil
	case DriverSQLite:
		kv, err := OpenSQLite(opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Successfully connected to SQLite database.", "path", opts.DatabasePath)
		return kv, nil
	case DriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		slog.Info("Successfully connected to Redis.", "addr", opts.RedisAddr)
		return NewRedisKV(rdb, opts.RedisPrefix), nil
	case DriverMemory:
		slog.Warn("Using in-memory storage; conversations will not survive a restart.")
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
