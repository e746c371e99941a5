package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"iris-chat/backend/internal/logger"
	"iris-chat/backend/internal/model"
)

// RelayPath is the relay route that forwards Claude requests.
const RelayPath = "/api/anthropic"

type claudeProvider struct {
	cfg    ProviderConfig
	client *http.Client
}

type claudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func newClaudeProvider(cfg ProviderConfig) *claudeProvider {
	return &claudeProvider{cfg: cfg, client: cfg.httpClient()}
}

func (p *claudeProvider) Name() ProviderID { return ProviderClaude }

// endpoint returns the relay route when a relay is configured, the vendor
// messages endpoint otherwise.
func (p *claudeProvider) endpoint() string {
	if p.cfg.RelayURL != "" {
		return strings.TrimRight(p.cfg.RelayURL, "/") + RelayPath
	}
	return strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/messages"
}

func (p *claudeProvider) Generate(ctx context.Context, messages []Message) (*Reply, error) {
	claudeMessages := make([]Message, 0, len(messages))
	for _, m := range messages {
		role := model.RoleAssistant
		if m.Role == model.RoleUser {
			role = model.RoleUser
		}
		claudeMessages = append(claudeMessages, Message{Role: role, Content: m.Content})
	}

	body := claudeRequest{
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: *p.cfg.Temperature,
		Messages:    claudeMessages,
	}

	headers := map[string]string{}
	if p.cfg.RelayURL == "" {
		headers["x-api-key"] = p.cfg.APIKey
		headers["anthropic-version"] = AnthropicVersion
	}

	raw, err := postJSON(ctx, p.client, ProviderClaude, p.endpoint(), headers, body)
	if err != nil {
		return nil, err
	}

	var resp claudeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformedError(ProviderClaude, "could not decode response", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil || *resp.Content[0].Text == "" {
		return nil, malformedError(ProviderClaude, "no content returned from Claude", nil)
	}

	reply := &Reply{Content: *resp.Content[0].Text}
	if resp.Usage != nil {
		reply.Usage = &Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return reply, nil
}

// postJSON sends one POST with a JSON body and returns the raw 2xx body.
// Every failure is returned as a *ProviderError.
func postJSON(ctx context.Context, client *http.Client, id ProviderID, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, malformedError(id, "could not marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(id, fmt.Errorf("could not create http request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, transportError(id, err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			slog.Warn("Failed to close provider response body", "provider", id, logger.Err(cErr))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(id, fmt.Errorf("could not read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(id, resp.StatusCode, raw)
	}
	return raw, nil
}
