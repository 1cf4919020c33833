package llm

import (
	"log/slog"

	"github.com/shopsight/shopsight/internal/config"
)

// NewProvider selects a completion provider from configuration. Unknown
// provider names fall back to the offline implementation, matching the
// behavior when no API credentials are available.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		slog.Info("initializing OpenAI provider", "model", cfg.OpenAIModel)
		return NewOpenAI(cfg)
	case "anthropic":
		slog.Info("initializing Anthropic provider", "model", cfg.AnthropicModel)
		return NewAnthropic(cfg)
	default:
		slog.Info("using offline completion provider")
		return NewOffline(), nil
	}
}
