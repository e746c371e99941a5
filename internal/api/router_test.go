package api_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"iris-chat/backend/internal/api"
	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/service"
)

func TestNewRouter(t *testing.T) {
	t.Run("Health check", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("URL parameters reach the handler", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SelectSession", "0190a1b2").Return(nil).Once()
		m.conversation.On("View").Return(service.ConversationView{SessionID: "0190a1b2"}).Once()
		router := api.NewRouter(handler, api.RouterOptions{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/0190a1b2/select", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Busy send maps to 409 through the router", func(t *testing.T) {
		handler, m := setupChatHandler(t)
		m.conversation.On("SendTurn", mock.Anything, "Hi").Return(nil, app_errors.ErrBusy).Once()
		router := api.NewRouter(handler, api.RouterOptions{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/conversation/messages", strings.NewReader(`{"content":"Hi"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Relay is mounted only when configured", func(t *testing.T) {
		handler, _ := setupChatHandler(t)
		relay := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		withRelay := api.NewRouter(handler, api.RouterOptions{Relay: relay})
		rr := httptest.NewRecorder()
		withRelay.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/anthropic", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusTeapot, rr.Code)

		withoutRelay := api.NewRouter(handler, api.RouterOptions{})
		rr = httptest.NewRecorder()
		withoutRelay.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/anthropic", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Static UI", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Iris</h1>"), 0o644))
		handler, _ := setupChatHandler(t)
		router := api.NewRouter(handler, api.RouterOptions{StaticDir: dir})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Iris")
	})
}
