// Package relay forwards vendor requests to Anthropic with a server-held
// credential, so browsers never see the key.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"iris-chat/backend/internal/logger"
)

const (
	DefaultUpstreamURL = "https://api.anthropic.com/v1/messages"
	DefaultVersion     = "2023-06-01"
	DefaultTimeout     = 60 * time.Second

	// maxBodyBytes caps both the inbound request and the upstream reply.
	maxBodyBytes = 8 << 20
)

type Config struct {
	APIKey      string
	UpstreamURL string
	Version     string
	HTTPClient  *http.Client
}

// Handler is the POST /api/anthropic endpoint.
type Handler struct {
	cfg    Config
	client *http.Client
}

func NewHandler(cfg Config) *Handler {
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = DefaultUpstreamURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Handler{cfg: cfg, client: client}
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "invalid_request_error", "Only POST is supported")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "Could not read request body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "Request body must be valid JSON")
		return
	}

	status, payload, err := h.forward(r.Context(), body)
	if err != nil {
		slog.Error("Relay upstream request failed", "upstream", h.cfg.UpstreamURL, logger.Err(err))
		writeError(w, http.StatusBadGateway, "api_error", "Upstream request failed")
		return
	}

	slog.Debug("Relayed request", "status", status, "bytes", len(payload))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Warn("Failed to write relay response", logger.Err(err))
	}
}

func (h *Handler) forward(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("x-api-key", h.cfg.APIKey)
	req.Header.Set("anthropic-version", h.cfg.Version)
	req.Header.Set("content-type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close upstream response body", logger.Err(err))
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read upstream response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	var body errorBody
	body.Error.Type = kind
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write relay error", logger.Err(err))
	}
}
