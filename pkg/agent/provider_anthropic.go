package agent

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicProvider implements Provider for Anthropic Claude.
// Incremental chats mirror their history locally.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey string, opts ...option.RequestOption) *AnthropicProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
	}
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// StartChat opens a locally mirrored chat
func (p *AnthropicProvider) StartChat(ctx context.Context, model string, history []Content) (Chat, error) {
	return newMirroredChat(model, history, p.Generate), nil
}

// Generate makes a messages API call with the whole history
func (p *AnthropicProvider) Generate(ctx context.Context, model string, history []Content) (*Reply, error) {
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, c := range history {
		block := anthropic.NewTextBlock(c.Flatten())
		if c.Role == RoleModel {
			messages = append(messages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{block},
			})
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: anthropicMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	text := ""
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}

	return &Reply{
		Text:         text,
		FinishReason: string(response.StopReason),
	}, nil
}
