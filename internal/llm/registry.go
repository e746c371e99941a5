package llm

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// EnvLookup resolves an environment-level fallback value.
type EnvLookup func(key string) (string, bool)

// Credential environment variables consulted when ProviderConfig.APIKey is empty.
const (
	ClaudeAPIKeyEnv = "CLAUDE_API_KEY"
	OpenAIAPIKeyEnv = "OPENAI_API_KEY"
)

// Registry builds and holds the single active provider client.
// One Registry is created at process start and passed to its consumers.
type Registry struct {
	mu     sync.RWMutex
	active Provider
	config ProviderConfig
	lookup EnvLookup
}

// NewRegistry returns an empty registry. A nil lookup falls back to os.LookupEnv.
func NewRegistry(lookup EnvLookup) *Registry {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Registry{lookup: lookup}
}

// Configure validates cfg, builds the matching client and makes it the active
// one, fully replacing any previous client. On error the previous state is kept.
func (r *Registry) Configure(cfg ProviderConfig) (Provider, error) {
	cfg = cfg.withDefaults()

	if *cfg.Temperature < 0 || *cfg.Temperature > 1 {
		return nil, &ConfigurationError{
			Field:   "temperature",
			Message: fmt.Sprintf("Temperature must be between 0 and 1, got %v.", *cfg.Temperature),
		}
	}
	if cfg.MaxTokens < 0 {
		return nil, &ConfigurationError{
			Field:   "maxTokens",
			Message: fmt.Sprintf("Max tokens must be a positive integer, got %d.", cfg.MaxTokens),
		}
	}

	var provider Provider
	switch cfg.Provider {
	case ProviderClaude:
		// The relay holds the credential server-side.
		if cfg.RelayURL == "" {
			if err := r.resolveKey(&cfg, ClaudeAPIKeyEnv); err != nil {
				return nil, err
			}
		}
		provider = newClaudeProvider(cfg)
	case ProviderChatGPT:
		if err := r.resolveKey(&cfg, OpenAIAPIKeyEnv); err != nil {
			return nil, err
		}
		provider = newChatGPTProvider(cfg)
	default:
		return nil, &ConfigurationError{
			Field:   "provider",
			Message: fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider),
		}
	}

	r.mu.Lock()
	r.active = provider
	r.config = cfg
	r.mu.Unlock()

	slog.Info("Configured LLM provider",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"relay", cfg.RelayURL != "",
	)
	return provider, nil
}

// Active returns the configured client, or false if Configure has not succeeded yet.
func (r *Registry) Active() (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.active != nil
}

// Config returns the resolved configuration of the active client with the
// credential removed.
func (r *Registry) Config() (ProviderConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return ProviderConfig{}, false
	}
	cfg := r.config
	cfg.APIKey = ""
	cfg.HTTPClient = nil
	return cfg, true
}

func (r *Registry) resolveKey(cfg *ProviderConfig, envKey string) error {
	if cfg.APIKey != "" {
		return nil
	}
	if v, ok := r.lookup(envKey); ok && v != "" {
		cfg.APIKey = v
		return nil
	}
	return &ConfigurationError{
		Field: envKey,
		Message: fmt.Sprintf("%s API key is required. Please set %s environment variable.",
			apiKeyOwner(cfg.Provider), envKey),
	}
}

func apiKeyOwner(id ProviderID) string {
	if id == ProviderChatGPT {
		return "OpenAI"
	}
	return id.DisplayName()
}
