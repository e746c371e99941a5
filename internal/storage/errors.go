package storage

import "errors"

// ErrNotFound is returned by KV.Get when the key has never been written.
//
// Each backend translates its own "missing" signal (sql.ErrNoRows, redis.Nil,
// a nil bolt value) into this sentinel so that callers stay backend-agnostic.
var ErrNotFound = errors.New("storage: key not found")
