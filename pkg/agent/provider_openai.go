package agent

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider for OpenAI chat completions.
// Incremental chats mirror their history locally.
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// StartChat opens a locally mirrored chat
func (p *OpenAIProvider) StartChat(ctx context.Context, model string, history []Content) (Chat, error) {
	return newMirroredChat(model, history, p.Generate), nil
}

// Generate makes a chat completion call with the whole history
func (p *OpenAIProvider) Generate(ctx context.Context, model string, history []Content) (*Reply, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, c := range history {
		switch c.Role {
		case RoleModel:
			messages = append(messages, openai.AssistantMessage(c.Flatten()))
		default:
			messages = append(messages, openai.UserMessage(c.Flatten()))
		}
	}

	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return &Reply{FinishReason: "no choices returned"}, nil
	}

	choice := response.Choices[0]
	return &Reply{
		Text:         choice.Message.Content,
		FinishReason: choice.FinishReason,
	}, nil
}
