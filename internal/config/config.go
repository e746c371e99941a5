package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"iris-chat/backend/internal/llm"
	"iris-chat/backend/internal/relay"
	"iris-chat/backend/internal/storage"
)

type Config struct {
	AppPort   int    `mapstructure:"APP_PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	StaticDir string `mapstructure:"STATIC_DIR"`

	AIProvider    string        `mapstructure:"AI_PROVIDER"`
	AIModel       string        `mapstructure:"AI_MODEL"`
	AITemperature float64       `mapstructure:"AI_TEMPERATURE"`
	AIMaxTokens   int           `mapstructure:"AI_MAX_TOKENS"`
	AIBaseURL     string        `mapstructure:"AI_BASE_URL"`
	AIRelayURL    string        `mapstructure:"AI_RELAY_URL"`
	AITimeout     time.Duration `mapstructure:"AI_TIMEOUT"`
	ClaudeAPIKey  string        `mapstructure:"CLAUDE_API_KEY"`
	OpenAIAPIKey  string        `mapstructure:"OPENAI_API_KEY"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabasePath  string `mapstructure:"DATABASE_PATH"`
	BoltPath      string `mapstructure:"BOLT_PATH"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPrefix   string `mapstructure:"REDIS_PREFIX"`

	RelayAnthropicAPIKey  string `mapstructure:"RELAY_ANTHROPIC_API_KEY"`
	RelayUpstreamURL      string `mapstructure:"RELAY_UPSTREAM_URL"`
	RelayAnthropicVersion string `mapstructure:"RELAY_ANTHROPIC_VERSION"`

	// ConfigFile is the .env file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// defaults lists every key; viper only unmarshals keys it knows about, so
// optional ones are registered with an empty default.
var defaults = map[string]any{
	"APP_PORT":   8000,
	"LOG_LEVEL":  "INFO",
	"LOG_FORMAT": "json",
	"STATIC_DIR": "",

	"AI_PROVIDER":    string(llm.ProviderClaude),
	"AI_MODEL":       "",
	"AI_TEMPERATURE": llm.DefaultTemperature,
	"AI_MAX_TOKENS":  llm.DefaultMaxTokens,
	"AI_BASE_URL":    "",
	"AI_RELAY_URL":   "",
	"AI_TIMEOUT":     llm.DefaultTimeout,
	"CLAUDE_API_KEY": "",
	"OPENAI_API_KEY": "",

	"STORAGE_DRIVER": storage.DriverBolt,
	"DATABASE_PATH":  "./data/iris.db",
	"BOLT_PATH":      "./data/iris.bolt",
	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PREFIX":   "iris:",

	"RELAY_ANTHROPIC_API_KEY": "",
	"RELAY_UPSTREAM_URL":      relay.DefaultUpstreamURL,
	"RELAY_ANTHROPIC_VERSION": relay.DefaultVersion,
}

// LoadConfig reads .env from the working directory (if present) and lets
// environment variables override it.
func LoadConfig() (*Config, error) {
	return load(".", "./backend")
}

func load(paths ...string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	return &cfg, nil
}

// Provider returns the provider settings handed to llm.Registry.Configure.
func (c *Config) Provider() llm.ProviderConfig {
	id := llm.ProviderID(strings.ToLower(strings.TrimSpace(c.AIProvider)))
	apiKey := c.ClaudeAPIKey
	if id == llm.ProviderChatGPT {
		apiKey = c.OpenAIAPIKey
	}
	temperature := c.AITemperature
	return llm.ProviderConfig{
		Provider:    id,
		APIKey:      apiKey,
		Model:       c.AIModel,
		Temperature: &temperature,
		MaxTokens:   c.AIMaxTokens,
		BaseURL:     c.AIBaseURL,
		RelayURL:    c.AIRelayURL,
		Timeout:     c.AITimeout,
	}
}

func (c *Config) Storage() storage.Options {
	return storage.Options{
		Driver:       strings.ToLower(strings.TrimSpace(c.StorageDriver)),
		DatabasePath: c.DatabasePath,
		BoltPath:     c.BoltPath,
		RedisAddr:    c.RedisAddr,
		RedisPrefix:  c.RedisPrefix,
	}
}

// Relay returns the relay settings, or false when no relay credential is set.
func (c *Config) Relay() (relay.Config, bool) {
	if c.RelayAnthropicAPIKey == "" {
		return relay.Config{}, false
	}
	return relay.Config{
		APIKey:      c.RelayAnthropicAPIKey,
		UpstreamURL: c.RelayUpstreamURL,
		Version:     c.RelayAnthropicVersion,
	}, true
}
