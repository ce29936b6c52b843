package llm

import (
	"context"
)

// Message is a minimal chat message format for the provider
type Message struct {
	Role    string // system | user | assistant
	Content string
}

// Usage captures token accounting if available
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ModelConfig contains per-request model settings
type ModelConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Provider abstracts the chat-completion call so the webhook path can be
// tested without a live model. Constructed explicitly and passed in; there is
// no package-wide lazily initialized client.
type Provider interface {
	Generate(ctx context.Context, messages []Message, cfg ModelConfig) (text string, usage Usage, err error)
}
