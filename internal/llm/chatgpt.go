package llm

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"iris-chat/backend/internal/model"
)

type chatGPTProvider struct {
	cfg ProviderConfig
	api *openai.Client
}

func newChatGPTProvider(cfg ProviderConfig) *chatGPTProvider {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = cfg.httpClient()
	return &chatGPTProvider{cfg: cfg, api: openai.NewClientWithConfig(oc)}
}

func (p *chatGPTProvider) Name() ProviderID { return ProviderChatGPT }

func (p *chatGPTProvider) Generate(ctx context.Context, messages []Message) (*Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: float32(*p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    chatGPTRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := p.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, malformedError(ProviderChatGPT, "No response choices returned from OpenAI", nil)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, malformedError(ProviderChatGPT, "empty message content returned from OpenAI", nil)
	}

	reply := &Reply{Content: content}
	// go-openai decodes a missing usage object as the zero value.
	if resp.Usage != (openai.Usage{}) {
		reply.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return reply, nil
}

func (p *chatGPTProvider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   ProviderChatGPT,
			Kind:       KindResponse,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider:   ProviderChatGPT,
			Kind:       KindResponse,
			StatusCode: reqErr.HTTPStatusCode,
			Cause:      err,
		}
	}
	if isTransportFailure(err) {
		return transportError(ProviderChatGPT, err)
	}
	return malformedError(ProviderChatGPT, "could not decode response", err)
}

func chatGPTRole(r model.Role) string {
	switch r {
	case model.RoleSystem:
		return openai.ChatMessageRoleSystem
	case model.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
