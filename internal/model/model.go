package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem is representable on the wire but never persisted as a turn.
	RoleSystem Role = "system"
)

// TitleLength is the number of characters of the first user message kept as a session title.
const TitleLength = 50

// Message stores a single conversational turn. Once created it is never edited.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is an ordered conversation. Messages are append-only.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Collection is the full set of sessions, newest first by caller convention.
type Collection []Session

// Draft is an unsent piece of text kept for later.
type Draft struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewID returns a unique, time-ordered identifier (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DeriveTitle shortens s to TitleLength runes.
func DeriveTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= TitleLength {
		return s
	}
	return string(runes[:TitleLength])
}

// Clone returns a deep copy of the session so callers can mutate it freely.
func (s Session) Clone() Session {
	out := s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	return out
}
