package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "iris-chat/backend/internal/errors"
)

func envFrom(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestRegistry_Configure(t *testing.T) {
	t.Run("Claude without any credential fails", func(t *testing.T) {
		registry := NewRegistry(envFrom(nil))

		provider, err := registry.Configure(ProviderConfig{Provider: ProviderClaude})

		require.Error(t, err)
		assert.Nil(t, provider)
		assert.ErrorIs(t, err, app_errors.ErrConfiguration)
		assert.ErrorContains(t, err, ClaudeAPIKeyEnv)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ClaudeAPIKeyEnv, cfgErr.Field)

		_, ok := registry.Active()
		assert.False(t, ok, "registry must stay unconfigured")
	})

	t.Run("Credential falls back to environment", func(t *testing.T) {
		registry := NewRegistry(envFrom(map[string]string{OpenAIAPIKeyEnv: "sk-env"}))

		provider, err := registry.Configure(ProviderConfig{Provider: ProviderChatGPT})
		require.NoError(t, err)
		assert.Equal(t, ProviderChatGPT, provider.Name())

		active, ok := registry.Active()
		require.True(t, ok)
		assert.Same(t, provider, active)

		cfg, ok := registry.Config()
		require.True(t, ok)
		assert.Empty(t, cfg.APIKey, "credential must not leak through Config")
		assert.Equal(t, DefaultChatGPTModel, cfg.Model)
		assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
		assert.InDelta(t, DefaultTemperature, *cfg.Temperature, 1e-9)
	})

	t.Run("Explicit credential wins over environment", func(t *testing.T) {
		registry := NewRegistry(envFrom(map[string]string{ClaudeAPIKeyEnv: "from-env"}))

		provider, err := registry.Configure(ProviderConfig{Provider: ProviderClaude, APIKey: "explicit"})
		require.NoError(t, err)

		claude, ok := provider.(*claudeProvider)
		require.True(t, ok)
		assert.Equal(t, "explicit", claude.cfg.APIKey)
	})

	t.Run("Claude through relay needs no credential", func(t *testing.T) {
		registry := NewRegistry(envFrom(nil))

		provider, err := registry.Configure(ProviderConfig{Provider: ProviderClaude, RelayURL: "http://localhost:3000"})
		require.NoError(t, err)
		assert.Equal(t, ProviderClaude, provider.Name())
	})

	t.Run("Unknown provider", func(t *testing.T) {
		registry := NewRegistry(envFrom(nil))

		_, err := registry.Configure(ProviderConfig{Provider: "gemini"})
		require.Error(t, err)
		assert.ErrorIs(t, err, app_errors.ErrConfiguration)
		assert.ErrorContains(t, err, "Unsupported AI provider: gemini")
	})

	t.Run("Out of range options", func(t *testing.T) {
		registry := NewRegistry(envFrom(map[string]string{ClaudeAPIKeyEnv: "k"}))
		hot := 1.5

		_, err := registry.Configure(ProviderConfig{Provider: ProviderClaude, Temperature: &hot})
		assert.ErrorIs(t, err, app_errors.ErrConfiguration)

		_, err = registry.Configure(ProviderConfig{Provider: ProviderClaude, MaxTokens: -1})
		assert.ErrorIs(t, err, app_errors.ErrConfiguration)
	})

	t.Run("Reconfigure replaces, failed reconfigure keeps", func(t *testing.T) {
		registry := NewRegistry(envFrom(map[string]string{ClaudeAPIKeyEnv: "k1", OpenAIAPIKeyEnv: "k2"}))

		first, err := registry.Configure(ProviderConfig{Provider: ProviderClaude, Model: "claude-custom"})
		require.NoError(t, err)

		second, err := registry.Configure(ProviderConfig{Provider: ProviderChatGPT})
		require.NoError(t, err)
		assert.NotSame(t, first, second)

		cfg, _ := registry.Config()
		assert.Equal(t, ProviderChatGPT, cfg.Provider)
		assert.Equal(t, DefaultChatGPTModel, cfg.Model, "previous model must not be merged in")

		_, err = registry.Configure(ProviderConfig{Provider: "unknown"})
		require.Error(t, err)

		active, ok := registry.Active()
		require.True(t, ok)
		assert.Same(t, second, active)
	})
}
