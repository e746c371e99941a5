package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"iris-chat/backend/internal/api"
	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/interfaces/mocks"
	"iris-chat/backend/internal/llm"
	"iris-chat/backend/internal/model"
	"iris-chat/backend/internal/service"
)

type handlerMocks struct {
	conversation *mocks.MockConversationService
	drafts       *mocks.MockDraftService
	provider     *mocks.MockProviderStatusService
}

// setupChatHandler builds a handler whose services are all mocks.
func setupChatHandler(t *testing.T) (*api.ChatHandler, handlerMocks) {
	m := handlerMocks{
		conversation: mocks.NewMockConversationService(t),
		drafts:       mocks.NewMockDraftService(t),
		provider:     mocks.NewMockProviderStatusService(t),
	}
	return api.NewChatHandler(m.conversation, m.drafts, m.provider), m
}

// addChiURLParams injects URL parameters the way the chi router would.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestChatHandler_GetProvider(t *testing.T) {
	// ARRANGE
	handler, m := setupChatHandler(t)
	status := service.ProviderStatus{Error: "Claude API key is required. Please set CLAUDE_API_KEY environment variable."}
	m.provider.On("Status").Return(status).Once()

	// ACT
	rr := httptest.NewRecorder()
	handler.GetProvider(rr, httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil))

	// ASSERT
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"configured":false,"error":"Claude API key is required. Please set CLAUDE_API_KEY environment variable."}`, rr.Body.String())
}

func TestChatHandler_GetSessions(t *testing.T) {
	handler, m := setupChatHandler(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sessions := model.Collection{{ID: "s1", Title: "Hello", Messages: []model.Message{}, CreatedAt: created, UpdatedAt: created}}
	m.conversation.On("Sessions").Return(sessions).Once()

	rr := httptest.NewRecorder()
	handler.GetSessions(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got model.Collection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, sessions, got)
}

// TestChatHandler_SendMessage tests POST /api/v1/conversation/messages.
//
// GOAL: validation and busy errors map to 4xx, provider failures are a normal
// 200 response carrying the error turn.
func TestChatHandler_SendMessage(t *testing.T) {
	view := service.ConversationView{SessionID: "s1", State: service.StateIdle}

	t.Run("Success", func(t *testing.T) {
		// ARRANGE
		handler, m := setupChatHandler(t)
		reply := model.Message{ID: "m2", Role: model.RoleAssistant, Content: "Hello!"}
		m.conversation.On("SendTurn", mock.Anything, "Hi").
			Return(&service.TurnResult{
				SessionID: "s1",
				Reply:     reply,
				Usage:     &llm.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
			}, nil).Once()
		m.conversation.On("View").Return(view).Once()

		// ACT
		req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/messages", strings.NewReader(`{"content":"Hi"}`))
		rr := httptest.NewRecorder()
		handler.SendMessage(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.TurnResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, "Hello!", got.Reply.Content)
		assert.Empty(t, got.Error)
		require.NotNil(t, got.Usage)
		assert.Equal(t, 20, got.Usage.TotalTokens)
		assert.Equal(t, "s1", got.Conversation.SessionID)
	})

	t.Run("Provider failure is still a 200", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		providerErr := fmt.Errorf("%w: 429", app_errors.ErrProviderResponse)
		m.conversation.On("SendTurn", mock.Anything, "Hi").Return(&service.TurnResult{
			SessionID: "s1",
			Reply:     model.Message{Role: model.RoleAssistant, Content: "Sorry, I encountered an error: 429. Please try again."},
			Err:       providerErr,
		}, nil).Once()
		m.conversation.On("View").Return(view).Once()

		rr := httptest.NewRecorder()
		handler.SendMessage(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"Hi"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.TurnResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, providerErr.Error(), got.Error)
		assert.Nil(t, got.Usage)
		assert.NotContains(t, rr.Body.String(), `"usage"`)
	})

	t.Run("Failure - missing content never reaches the service", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		rr := httptest.NewRecorder()
		handler.SendMessage(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "'content' is required")
	})

	t.Run("Failure - malformed JSON", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		rr := httptest.NewRecorder()
		handler.SendMessage(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - whitespace only", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SendTurn", mock.Anything, "   ").
			Return(nil, fmt.Errorf("%w: message content is empty", app_errors.ErrValidation)).Once()

		rr := httptest.NewRecorder()
		handler.SendMessage(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"   "}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "message content is empty")
	})

	t.Run("Failure - busy", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SendTurn", mock.Anything, "again").Return(nil, app_errors.ErrBusy).Once()

		rr := httptest.NewRecorder()
		handler.SendMessage(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"again"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, decodeError(t, rr), "already being sent")
	})
}

func TestChatHandler_Sessions(t *testing.T) {
	t.Run("Select - success", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SelectSession", "s1").Return(nil).Once()
		m.conversation.On("View").Return(service.ConversationView{SessionID: "s1"}).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"sessionID": "s1"})
		rr := httptest.NewRecorder()
		handler.SelectSession(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"sessionId":"s1"`)
	})

	t.Run("Select - unknown session", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SelectSession", "nope").Return(fmt.Errorf("%w: session nope", app_errors.ErrNotFound)).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"sessionID": "nope"})
		rr := httptest.NewRecorder()
		handler.SelectSession(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("New", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("NewSession").Return().Once()
		m.conversation.On("View").Return(service.ConversationView{State: service.StateIdle}).Once()

		rr := httptest.NewRecorder()
		handler.NewConversation(rr, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"sessionId":""`)
	})

	t.Run("Delete", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("DeleteSession", mock.Anything, "s1").Return().Once()
		m.conversation.On("View").Return(service.ConversationView{}).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"sessionID": "s1"})
		rr := httptest.NewRecorder()
		handler.HandleDeleteSession(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestChatHandler_Drafts(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.drafts.On("List", mock.Anything).Return([]model.Draft{{ID: "d1", Content: "later"}}).Once()

		rr := httptest.NewRecorder()
		handler.GetDrafts(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"content":"later"`)
	})

	t.Run("Put - success", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		saved := []model.Draft{{ID: "d1", Content: "keep"}, {ID: "d2", Content: "new"}}
		m.drafts.On("Replace", mock.Anything, []model.Draft{{ID: "d1", Content: "keep"}, {Content: "new"}}).
			Return(saved, nil).Once()

		body := `{"drafts":[{"id":"d1","content":"keep"},{"content":"new"}]}`
		rr := httptest.NewRecorder()
		handler.PutDrafts(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []model.Draft
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, saved, got)
	})

	t.Run("Put - nested validation", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		rr := httptest.NewRecorder()
		handler.PutDrafts(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"drafts":[{"id":"d1"}]}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "'drafts[0].content' is required")
	})

	t.Run("Put - storage failure", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.drafts.On("Replace", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: %v", app_errors.ErrStorage, errors.New("read-only file system"))).Once()

		rr := httptest.NewRecorder()
		handler.PutDrafts(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"drafts":[{"content":"x"}]}`)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Changes could not be saved.", decodeError(t, rr))
	})
}
