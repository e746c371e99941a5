package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var kvBucket = []byte("kv")

// BoltKV keeps values in a single bbolt bucket. It is the default local medium.
type BoltKV struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the bolt file at path.
func OpenBolt(path string) (*BoltKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create bolt directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltKV{db: db}, nil
}

func (b *BoltKV) Get(_ context.Context, key string) (string, error) {
	var value string
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(kvBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction.
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("could not read key %q: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (b *BoltKV) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("could not write key %q: %w", key, err)
	}
	return nil
}

func (b *BoltKV) Close() error {
	return b.db.Close()
}
