package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Shopify ShopifyConfig
	Agent   AgentConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
}

type LLMConfig struct {
	// Provider selects the completion backend: openai, anthropic, or offline
	Provider        string `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-20241022"`
}

type ShopifyConfig struct {
	APIVersion string        `envconfig:"SHOPIFY_API_VERSION" default:"2024-01"`
	Timeout    time.Duration `envconfig:"SHOPIFY_TIMEOUT" default:"30s"`
}

type AgentConfig struct {
	// MaxRetries bounds query-execution attempts beyond the first
	MaxRetries           int           `envconfig:"AGENT_MAX_RETRIES" default:"3"`
	RetryInitialInterval time.Duration `envconfig:"AGENT_RETRY_INITIAL_INTERVAL" default:"2s"`
	RetryMaxInterval     time.Duration `envconfig:"AGENT_RETRY_MAX_INTERVAL" default:"10s"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
