package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/llm"
	"iris-chat/backend/internal/logger"
	"iris-chat/backend/internal/model"
)

// State of a ConversationController.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

// ActiveProvider resolves the provider a turn is sent to.
type ActiveProvider interface {
	Active() (llm.Provider, bool)
}

// SessionStore is the part of store.Store the controller relies on.
type SessionStore interface {
	NewMessage(role model.Role, content string) model.Message
	LoadAll(ctx context.Context) model.Collection
	SaveAll(ctx context.Context, c model.Collection) error
	CreateSession(first model.Message) model.Session
	AppendToSession(c model.Collection, sessionID string, msg model.Message) model.Collection
	DeleteSession(c model.Collection, sessionID string) model.Collection
	Prepend(c model.Collection, session model.Session) model.Collection
}

// TurnResult describes one completed SendTurn.
type TurnResult struct {
	// SessionID is the session both messages were persisted into.
	SessionID string
	User      model.Message
	Reply     model.Message
	// Err is the provider failure rendered into Reply, nil on success.
	Err error
	// Stale is set when the session the turn was sent from is no longer on screen.
	Stale bool
	Usage *llm.Usage
}

// ConversationView is a snapshot of the controller for the UI.
type ConversationView struct {
	SessionID string          `json:"sessionId"`
	State     State           `json:"state"`
	Messages  []model.Message `json:"messages"`
	LastError string          `json:"lastError"`
}

// ConversationController owns the active transcript and the session collection.
// Its state is mutex guarded; the provider call runs without holding the lock.
type ConversationController struct {
	providers ActiveProvider
	store     SessionStore

	mu         sync.Mutex
	state      State
	sessions   model.Collection
	currentID  string
	transcript []model.Message
	lastError  string
	// epoch changes whenever the current session changes, so a call sent
	// from an unsaved conversation can tell whether it is still on screen.
	epoch uint64
}

// ControllerOption customizes a ConversationController.
type ControllerOption func(*ConversationController)

// WithSessions seeds the controller with an already loaded collection.
func WithSessions(c model.Collection) ControllerOption {
	return func(cc *ConversationController) { cc.sessions = c }
}

func NewConversationController(providers ActiveProvider, store SessionStore, opts ...ControllerOption) *ConversationController {
	c := &ConversationController{
		providers: providers,
		store:     store,
		state:     StateIdle,
		sessions:  model.Collection{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory collection with the persisted one.
func (c *ConversationController) Load(ctx context.Context) {
	sessions := c.store.LoadAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = sessions
	if _, ok := c.find(c.currentID); !ok {
		c.resetLocked()
	}
	slog.Info("Conversation history loaded", "sessions", len(sessions))
}

// SendTurn sends text as a user turn and records the assistant reply, or a
// visible error turn when the provider fails. Provider failures are reported
// through TurnResult.Err, not the returned error. Once sent, the turn runs to
// completion even if ctx is cancelled; the provider timeout bounds it.
func (c *ConversationController) SendTurn(ctx context.Context, text string) (*TurnResult, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", app_errors.ErrValidation)
	}

	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		return nil, app_errors.ErrBusy
	}
	userMsg := c.store.NewMessage(model.RoleUser, content)
	c.transcript = append(c.transcript, userMsg)
	c.state = StateSending
	originID := c.currentID
	epoch := c.epoch
	request := llm.FromMessages(c.transcript)
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	reply, err := c.generate(ctx, request)

	result := &TurnResult{User: userMsg, Err: err}
	if err != nil {
		slog.Warn("Provider call failed", "session_id", originID, logger.Err(err))
		result.Reply = c.store.NewMessage(model.RoleAssistant, errorTurnText(err))
	} else {
		result.Reply = c.store.NewMessage(model.RoleAssistant, reply.Content)
		result.Usage = reply.Usage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	result.Stale = c.staleLocked(originID, epoch)
	result.SessionID = c.recordLocked(originID, userMsg, result.Reply, result.Stale)

	if !result.Stale {
		// The session is the source of truth: it may have been reselected
		// while the call was in flight.
		if session, ok := c.find(result.SessionID); ok {
			c.transcript = session.Clone().Messages
		}
		if err != nil {
			c.lastError = err.Error()
		} else {
			c.lastError = ""
		}
	}

	c.persistLocked(ctx)

	if result.Stale {
		slog.Info("Reply arrived after session switch", "session_id", result.SessionID)
	}
	return result, nil
}

// SelectSession makes id the current session and loads its transcript.
func (c *ConversationController) SelectSession(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%w: session %s", app_errors.ErrNotFound, id)
	}
	c.currentID = session.ID
	c.transcript = session.Clone().Messages
	c.epoch++
	return nil
}

// NewSession clears the current selection; the next turn starts a new session.
func (c *ConversationController) NewSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// DeleteSession removes id from the collection and persists the result.
// Deleting the current session behaves like NewSession. Unknown ids are a no-op.
func (c *ConversationController) DeleteSession(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions = c.store.DeleteSession(c.sessions, id)
	if id == c.currentID {
		c.resetLocked()
	}
	c.persistLocked(ctx)
}

// Sessions returns the collection, most recent first.
func (c *ConversationController) Sessions() model.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(model.Collection, len(c.sessions))
	copy(out, c.sessions)
	return out
}

// Transcript returns the messages of the current conversation.
func (c *ConversationController) Transcript() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcriptLocked()
}

func (c *ConversationController) CurrentSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// LastError holds the most recent provider failure until the next successful turn.
func (c *ConversationController) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *ConversationController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns a consistent snapshot of the current conversation.
func (c *ConversationController) View() ConversationView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConversationView{
		SessionID: c.currentID,
		State:     c.state,
		Messages:  c.transcriptLocked(),
		LastError: c.lastError,
	}
}

func (c *ConversationController) generate(ctx context.Context, request []llm.Message) (*llm.Reply, error) {
	provider, ok := c.providers.Active()
	if !ok {
		return nil, app_errors.ErrNotConfigured
	}

	start := time.Now()
	reply, err := provider.Generate(ctx, request)
	if err != nil {
		return nil, err
	}
	slog.Debug("Provider reply received", "provider", provider.Name(), "duration", time.Since(start))
	return reply, nil
}

// staleLocked reports whether the conversation a turn was sent from has left
// the screen. A saved session is still current when it was reselected.
func (c *ConversationController) staleLocked(originID string, epoch uint64) bool {
	if originID != "" {
		return originID != c.currentID
	}
	return c.epoch != epoch
}

// recordLocked stores the exchange in the collection and returns the session id it went to.
func (c *ConversationController) recordLocked(originID string, userMsg, reply model.Message, stale bool) string {
	if originID == "" {
		session := c.store.CreateSession(userMsg)
		c.sessions = c.store.Prepend(c.sessions, session)
		c.sessions = c.store.AppendToSession(c.sessions, session.ID, reply)
		if !stale {
			c.currentID = session.ID
		}
		return session.ID
	}

	if _, ok := c.find(originID); !ok {
		slog.Warn("Session was deleted while a request was in flight, dropping reply", "session_id", originID)
		return originID
	}
	c.sessions = c.store.AppendToSession(c.sessions, originID, userMsg)
	c.sessions = c.store.AppendToSession(c.sessions, originID, reply)
	return originID
}

// persistLocked saves the collection; failures are logged by the store and never surfaced.
func (c *ConversationController) persistLocked(ctx context.Context) {
	if err := c.store.SaveAll(ctx, c.sessions); err != nil {
		slog.Warn("Continuing with in-memory history", logger.Err(err))
	}
}

func (c *ConversationController) resetLocked() {
	c.currentID = ""
	c.transcript = nil
	c.epoch++
}

func (c *ConversationController) find(id string) (model.Session, bool) {
	if id == "" {
		return model.Session{}, false
	}
	for _, s := range c.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}

func (c *ConversationController) transcriptLocked() []model.Message {
	out := make([]model.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// errorTurnText renders a provider failure as a visible assistant turn.
func errorTurnText(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", err.Error())
}
