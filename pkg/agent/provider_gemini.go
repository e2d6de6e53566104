package agent

import (
	"context"
	"fmt"
	"path/filepath"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider and Uploader for Google Gemini.
// Chats are held by the genai SDK; uploads go through the Files API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a Gemini API client
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// StartChat creates a Gemini chat seeded with history
func (p *GeminiProvider) StartChat(ctx context.Context, model string, history []Content) (Chat, error) {
	chat, err := p.client.Chats.Create(ctx, model, nil, toGeminiContents(history))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini chat: %w", err)
	}
	return &geminiChat{chat: chat}, nil
}

// Generate sends the whole history in a single request
func (p *GeminiProvider) Generate(ctx context.Context, model string, history []Content) (*Reply, error) {
	res, err := p.client.Models.GenerateContent(ctx, model, toGeminiContents(history), nil)
	if err != nil {
		return nil, err
	}
	return geminiReply(res), nil
}

// Upload sends a local file to the Gemini Files API
func (p *GeminiProvider) Upload(ctx context.Context, path, mimeType string) (*Artifact, error) {
	file, err := p.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(path),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
	}

	return &Artifact{
		URI:      file.URI,
		MIMEType: file.MIMEType,
		Name:     filepath.Base(path),
	}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) Send(ctx context.Context, text string) (*Reply, error) {
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, err
	}
	return geminiReply(res), nil
}

// geminiReply takes the first part of the first candidate, as the chat UI does.
func geminiReply(res *genai.GenerateContentResponse) *Reply {
	if res == nil {
		return &Reply{}
	}

	if len(res.Candidates) == 0 {
		reply := &Reply{}
		if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			reply.FinishReason = string(res.PromptFeedback.BlockReason)
		}
		return reply
	}

	candidate := res.Candidates[0]
	reply := &Reply{FinishReason: string(candidate.FinishReason)}
	if candidate.Content != nil && len(candidate.Content.Parts) > 0 && candidate.Content.Parts[0] != nil {
		reply.Text = candidate.Content.Parts[0].Text
	}
	return reply
}

func toGeminiContents(history []Content) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, c := range history {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			switch {
			case p.File != nil && len(p.File.Data) > 0:
				parts = append(parts, genai.NewPartFromBytes(p.File.Data, p.File.MIMEType))
			case p.File != nil:
				parts = append(parts, genai.NewPartFromURI(p.File.URI, p.File.MIMEType))
			default:
				parts = append(parts, genai.NewPartFromText(p.Text))
			}
		}

		role := genai.RoleUser
		if c.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.Role(role)))
	}
	return contents
}
