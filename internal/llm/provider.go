package llm

import (
	"context"
	"net/http"
	"time"

	"iris-chat/backend/internal/model"
)

// ProviderID names one of the supported LLM vendors.
type ProviderID string

const (
	ProviderClaude  ProviderID = "claude"
	ProviderChatGPT ProviderID = "chatgpt"
)

// DisplayName is the human readable vendor name used in error messages.
func (id ProviderID) DisplayName() string {
	switch id {
	case ProviderClaude:
		return "Claude"
	case ProviderChatGPT:
		return "ChatGPT"
	default:
		return string(id)
	}
}

const (
	DefaultClaudeModel   = "claude-3-sonnet-20240229"
	DefaultChatGPTModel  = "gpt-3.5-turbo"
	DefaultClaudeBaseURL = "https://api.anthropic.com"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1000
	DefaultTimeout       = 60 * time.Second

	// AnthropicVersion is sent with every direct (non-relayed) Claude request.
	AnthropicVersion = "2023-06-01"
)

// Provider is the capability every vendor client implements.
//
// Generate performs exactly one attempt. Failures are returned as *ProviderError.
type Provider interface {
	Name() ProviderID
	Generate(ctx context.Context, messages []Message) (*Reply, error)
}

// Message is the vendor-neutral wire message.
type Message struct {
	Role    model.Role `json:"role"`
	Content string     `json:"content"`
}

// Usage holds normalized token counters.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Reply is a normalized generation result. Usage is nil when the vendor omitted it.
type Reply struct {
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}

// ProviderConfig is the resolved configuration of one provider client.
// It is copied into the client on construction; later changes have no effect.
type ProviderConfig struct {
	Provider ProviderID
	APIKey   string
	Model    string
	// Temperature is optional so that an explicit 0 can be told apart from "unset".
	Temperature *float64
	MaxTokens   int
	// BaseURL overrides the vendor endpoint root.
	BaseURL string
	// RelayURL routes Claude requests through a trusted relay that injects the credential.
	RelayURL   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// FromMessages maps persisted turns to the wire shape, in order.
func FromMessages(messages []model.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (c ProviderConfig) withDefaults() ProviderConfig {
	if c.Model == "" {
		switch c.Provider {
		case ProviderClaude:
			c.Model = DefaultClaudeModel
		case ProviderChatGPT:
			c.Model = DefaultChatGPTModel
		}
	}
	if c.BaseURL == "" {
		switch c.Provider {
		case ProviderClaude:
			c.BaseURL = DefaultClaudeBaseURL
		case ProviderChatGPT:
			c.BaseURL = DefaultOpenAIBaseURL
		}
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	} else {
		t := *c.Temperature
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

func (c ProviderConfig) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}
