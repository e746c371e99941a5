package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/interfaces"
	"iris-chat/backend/internal/model"
)

// ChatHandler serves the conversation, session and draft endpoints the UI calls.
type ChatHandler struct {
	conversation interfaces.ConversationService
	drafts       interfaces.DraftService
	provider     interfaces.ProviderStatusService
}

func NewChatHandler(
	conversation interfaces.ConversationService,
	drafts interfaces.DraftService,
	provider interfaces.ProviderStatusService,
) *ChatHandler {
	return &ChatHandler{conversation: conversation, drafts: drafts, provider: provider}
}

// GetProvider returns the configuration banner state.
func (h *ChatHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.provider.Status())
}

func (h *ChatHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.conversation.Sessions())
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.conversation.View())
}

// SendMessage sends one user turn and blocks until the reply (or error turn) is recorded.
// Provider failures still answer 200: the failure is part of the conversation.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, app_errors.ErrValidation)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.conversation.SendTurn(r.Context(), req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}

	resp := TurnResponse{
		SessionID:    result.SessionID,
		Reply:        result.Reply,
		Stale:        result.Stale,
		Usage:        result.Usage,
		Conversation: h.conversation.View(),
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) NewConversation(w http.ResponseWriter, r *http.Request) {
	h.conversation.NewSession()
	respondWithJSON(w, http.StatusOK, h.conversation.View())
}

func (h *ChatHandler) SelectSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.conversation.SelectSession(sessionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.conversation.View())
}

// HandleDeleteSession is idempotent: unknown ids still answer 200.
func (h *ChatHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.conversation.DeleteSession(r.Context(), sessionID)
	slog.Info("Session deleted", "session_id", sessionID)
	respondWithJSON(w, http.StatusOK, h.conversation.View())
}

func (h *ChatHandler) GetDrafts(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.drafts.List(r.Context()))
}

// PutDrafts replaces the whole draft list.
func (h *ChatHandler) PutDrafts(w http.ResponseWriter, r *http.Request) {
	var req PutDraftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, app_errors.ErrValidation)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	drafts := make([]model.Draft, len(req.Drafts))
	for i, d := range req.Drafts {
		drafts[i] = model.Draft{ID: d.ID, Content: d.Content, CreatedAt: d.CreatedAt}
	}

	saved, err := h.drafts.Replace(r.Context(), drafts)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}
