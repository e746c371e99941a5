package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/llm"
	"iris-chat/backend/internal/logger"
	"iris-chat/backend/internal/model"
	"iris-chat/backend/internal/service"
)

// Request and response DTOs of the JSON API, plus the helpers that write them.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by endpoints with nothing else to say.
type StatusResponse struct {
	Status string `json:"status"`
}

// SendMessageRequest carries one user turn. Whitespace-only content passes the
// tag check and is rejected by the controller.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=32000"`
}

// TurnResponse is the result of POST /conversation/messages.
type TurnResponse struct {
	SessionID    string                   `json:"sessionId"`
	Reply        model.Message            `json:"reply"`
	Stale        bool                     `json:"stale"`
	Error        string                   `json:"error,omitempty"`
	Usage        *llm.Usage               `json:"usage,omitempty"`
	Conversation service.ConversationView `json:"conversation"`
}

type DraftInput struct {
	ID        string    `json:"id" validate:"omitempty,max=64"`
	Content   string    `json:"content" validate:"required,max=32000"`
	CreatedAt time.Time `json:"createdAt"`
}

type PutDraftsRequest struct {
	Drafts []DraftInput `json:"drafts" validate:"dive"`
}

// respondWithError maps business-layer errors to HTTP status codes and
// writes a standard JSON error body.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrBusy):
		statusCode = http.StatusConflict
		message = "A message is already being sent. Please wait for the reply."
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrStorage):
		statusCode = http.StatusInternalServerError
		message = "Changes could not be saved."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", logger.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", logger.Err(err))
	}
}
