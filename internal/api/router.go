package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions holds the optional parts of the router.
type RouterOptions struct {
	// Relay, when set, is mounted at /api/anthropic.
	Relay http.Handler
	// StaticDir, when set, serves the built UI from that directory.
	StaticDir string
}

// NewRouter creates the chi router with every API route.
func NewRouter(chatHandler *ChatHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	if opts.Relay != nil {
		r.Handle("/api/anthropic", opts.Relay)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(15 * time.Second))

			r.Get("/provider", chatHandler.GetProvider)

			r.Get("/sessions", chatHandler.GetSessions)
			r.Post("/sessions/{sessionID}/select", chatHandler.SelectSession)
			r.Delete("/sessions/{sessionID}", chatHandler.HandleDeleteSession)

			r.Get("/conversation", chatHandler.GetConversation)
			r.Post("/conversation/new", chatHandler.NewConversation)

			r.Get("/drafts", chatHandler.GetDrafts)
			r.Put("/drafts", chatHandler.PutDrafts)
		})

		// Sending waits for the provider, which has its own timeout.
		r.Post("/conversation/messages", chatHandler.SendMessage)
	})

	if opts.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(opts.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
