package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider on top of the OpenAI chat-completions API.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider builds a provider. baseURL is optional and exists for
// tests and proxy deployments.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &OpenAIProvider{client: &client}
}

// Generate sends the message list to the chat-completions endpoint. An empty
// completion is treated as a failure; errors propagate to the caller uncaught.
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message, cfg ModelConfig) (string, Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(cfg.Model),
		Temperature: openai.Float(float64(cfg.Temperature)),
	}
	if cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(cfg.MaxTokens))
	}

	for _, m := range messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Usage{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", Usage{}, fmt.Errorf("model returned an empty completion")
	}

	usage := Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, usage, nil
}
