package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/shopsight/shopsight/internal/config"
)

// Anthropic client implementation
type Anthropic struct {
	client anthropic.Client
	cfg    *config.LLMConfig
}

func NewAnthropic(cfg *config.LLMConfig) (*Anthropic, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)

	return &Anthropic{
		client: client,
		cfg:    cfg,
	}, nil
}

func (a *Anthropic) Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	options := &Options{
		Model:       a.cfg.AnthropicModel,
		Temperature: 0.7,
		MaxTokens:   2000,
		Shape:       ShapeText,
	}
	for _, opt := range opts {
		opt(options)
	}

	system := systemPrompt
	if options.Shape == ShapeJSON {
		system += jsonInstruction
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: options.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Opt(options.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	response := &Response{
		Usage: Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
			TotalTokens:      msg.Usage.InputTokens + msg.Usage.OutputTokens,
		},
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			response.Content = block.Text
			break
		}
	}

	return response, nil
}
