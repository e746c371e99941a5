// Package store owns the persisted collection of conversation sessions.
//
// Collection operations (CreateSession, AppendToSession, DeleteSession, Prepend)
// are pure: they never touch storage and never mutate their input. Only LoadAll,
// SaveAll and the draft helpers talk to the key/value medium.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/logger"
	"iris-chat/backend/internal/model"
	"iris-chat/backend/internal/storage"
)

// Store is the ConversationStore.
type Store struct {
	kv  storage.KV
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current instant.
func (s *Store) Now() time.Time { return s.now() }

// NewMessage builds an immutable turn stamped with the store clock.
func (s *Store) NewMessage(role model.Role, content string) model.Message {
	return model.Message{
		ID:        model.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}

// LoadAll reads the persisted collection. Missing data yields an empty
// collection; unreadable or corrupt data is logged and also yields an empty one.
func (s *Store) LoadAll(ctx context.Context) model.Collection {
	var c model.Collection
	if !s.load(ctx, storage.HistoryKey, &c) {
		return model.Collection{}
	}
	if c == nil {
		c = model.Collection{}
	}
	return c
}

// SaveAll overwrites the persisted collection. A failure is logged and
// returned wrapped in ErrStorage; it is never fatal to the caller.
func (s *Store) SaveAll(ctx context.Context, c model.Collection) error {
	if c == nil {
		c = model.Collection{}
	}
	return s.save(ctx, storage.HistoryKey, c)
}

// CreateSession starts a session seeded with first. It is not persisted.
func (s *Store) CreateSession(first model.Message) model.Session {
	now := s.now()
	return model.Session{
		ID:        model.NewID(),
		Title:     model.DeriveTitle(first.Content),
		Messages:  []model.Message{first},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendToSession returns a copy of c in which the session with sessionID has
// msg appended and UpdatedAt refreshed. An unknown id returns c unchanged.
func (s *Store) AppendToSession(c model.Collection, sessionID string, msg model.Message) model.Collection {
	idx := indexOf(c, sessionID)
	if idx < 0 {
		return c
	}

	out := make(model.Collection, len(c))
	copy(out, c)

	updated := c[idx].Clone()
	updated.Messages = append(updated.Messages, msg)
	updated.UpdatedAt = s.now()
	out[idx] = updated
	return out
}

// DeleteSession returns a copy of c without sessionID. Deleting an unknown id is a no-op.
func (s *Store) DeleteSession(c model.Collection, sessionID string) model.Collection {
	idx := indexOf(c, sessionID)
	if idx < 0 {
		return c
	}
	out := make(model.Collection, 0, len(c)-1)
	out = append(out, c[:idx]...)
	return append(out, c[idx+1:]...)
}

// Prepend returns a copy of c with session in front.
func (s *Store) Prepend(c model.Collection, session model.Session) model.Collection {
	out := make(model.Collection, 0, len(c)+1)
	out = append(out, session)
	return append(out, c...)
}

// Find returns a copy of the session with the given id.
func Find(c model.Collection, sessionID string) (model.Session, bool) {
	idx := indexOf(c, sessionID)
	if idx < 0 {
		return model.Session{}, false
	}
	return c[idx].Clone(), true
}

// LoadDrafts reads persisted drafts with the same tolerance as LoadAll.
func (s *Store) LoadDrafts(ctx context.Context) []model.Draft {
	var drafts []model.Draft
	if !s.load(ctx, storage.DraftsKey, &drafts) || drafts == nil {
		return []model.Draft{}
	}
	return drafts
}

// SaveDrafts overwrites the persisted drafts.
func (s *Store) SaveDrafts(ctx context.Context, drafts []model.Draft) error {
	if drafts == nil {
		drafts = []model.Draft{}
	}
	return s.save(ctx, storage.DraftsKey, drafts)
}

// NewDraft builds a draft stamped with the store clock.
func (s *Store) NewDraft(content string) model.Draft {
	return model.Draft{ID: model.NewID(), Content: content, CreatedAt: s.now()}
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("Failed to load persisted data", "key", key, logger.Err(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Error("Persisted data is corrupt, starting empty", "key", key, logger.Err(err))
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode data for persistence", "key", key, logger.Err(err))
		return fmt.Errorf("%w: encode %s: %v", app_errors.ErrStorage, key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		slog.Error("Failed to save persisted data", "key", key, logger.Err(err))
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}
	return nil
}

func indexOf(c model.Collection, sessionID string) int {
	for i := range c {
		if c[i].ID == sessionID {
			return i
		}
	}
	return -1
}
