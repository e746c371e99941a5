package service

import (
	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/llm"
)

// ProviderConfigSource reports the configuration of the active provider.
type ProviderConfigSource interface {
	Config() (llm.ProviderConfig, bool)
}

// ProviderStatus is what the UI shows in its configuration banner.
type ProviderStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ProviderStatusService struct {
	source   ProviderConfigSource
	setupErr error
}

// NewProviderStatusService keeps setupErr, the error the startup
// configuration failed with, so the banner can explain itself.
func NewProviderStatusService(source ProviderConfigSource, setupErr error) *ProviderStatusService {
	return &ProviderStatusService{source: source, setupErr: setupErr}
}

func (s *ProviderStatusService) Status() ProviderStatus {
	cfg, ok := s.source.Config()
	if !ok {
		status := ProviderStatus{Error: app_errors.ErrNotConfigured.Error()}
		if s.setupErr != nil {
			status.Error = s.setupErr.Error()
		}
		return status
	}
	return ProviderStatus{
		Configured: true,
		Provider:   cfg.Provider.DisplayName(),
		Model:      cfg.Model,
	}
}
