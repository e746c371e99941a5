package interfaces

import (
	"context"

	"iris-chat/backend/internal/model"
	"iris-chat/backend/internal/service"
)

// Contracts of the services the HTTP layer and the CLI depend on.
// Handlers take these instead of the concrete types so tests can mock them.

// ConversationService drives the active conversation and the session list.
type ConversationService interface {
	SendTurn(ctx context.Context, text string) (*service.TurnResult, error)
	SelectSession(id string) error
	NewSession()
	DeleteSession(ctx context.Context, id string)
	Sessions() model.Collection
	View() service.ConversationView
}

// DraftService manages saved drafts.
type DraftService interface {
	List(ctx context.Context) []model.Draft
	Replace(ctx context.Context, drafts []model.Draft) ([]model.Draft, error)
}

// ProviderStatusService reports whether a provider is configured.
type ProviderStatusService interface {
	Status() service.ProviderStatus
}
