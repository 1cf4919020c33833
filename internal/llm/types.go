package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Shape tells the provider what kind of completion the caller expects.
type Shape string

const (
	ShapeText Shape = "text"
	ShapeJSON Shape = "json"
)

type Provider interface {
	// Generate takes a prompt and returns a completion
	Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Shape       Shape
}

func WithShape(s Shape) Option {
	return func(o *Options) { o.Shape = s }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) { o.MaxTokens = n }
}

type Response struct {
	Content string
	Usage   Usage
}

// StripFences removes an optional markdown code fence wrapping, including a
// leading language tag such as "sql" or "json".
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		switch strings.ToLower(firstLine) {
		case "sql", "shopifyql", "json", "graphql", "":
			s = s[idx+1:]
		}
	}
	return strings.TrimSpace(s)
}

// DecodeJSON unmarshals a JSON-shaped completion into v, tolerating a code
// fence around the document.
func DecodeJSON(content string, v interface{}) error {
	cleaned := StripFences(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("malformed JSON completion: %w", err)
	}
	return nil
}
