package agent

import (
	"context"
	"fmt"
)

// Provider is an LLM backend.
type Provider interface {
	// Name returns the provider name
	Name() string

	// StartChat opens an incremental chat seeded with history
	StartChat(ctx context.Context, model string, history []Content) (Chat, error)

	// Generate answers a stateless request that carries the whole history
	Generate(ctx context.Context, model string, history []Content) (*Reply, error)
}

// Chat is an incremental conversation context. Each Send carries only the
// new input; the context grows with every successful exchange.
type Chat interface {
	Send(ctx context.Context, text string) (*Reply, error)
}

// Uploader is implemented by providers with a file service.
type Uploader interface {
	Upload(ctx context.Context, path, mimeType string) (*Artifact, error)
}

// ProviderFactory creates LLM providers
type ProviderFactory struct{}

// NewProvider creates a provider by name
func (f *ProviderFactory) NewProvider(ctx context.Context, name, apiKey string) (Provider, error) {
	switch name {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey)
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
