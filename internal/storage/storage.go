package storage

import "context"

// Keys of the persisted blobs.
const (
	HistoryKey = "chatbot_history"
	DraftsKey  = "chatbot_drafts"
)

// KV is the string-valued key/value medium conversations are persisted in.
// Set fully overwrites the previous value; there are no partial writes.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
