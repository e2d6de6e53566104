package agent

import (
	"context"
	"sync"
)

type generateFunc func(ctx context.Context, model string, history []Content) (*Reply, error)

// mirroredChat keeps the chat context locally for backends whose API is
// stateless. The exchange is recorded only when the reply carries text.
type mirroredChat struct {
	mu       sync.Mutex
	model    string
	history  []Content
	generate generateFunc
}

func newMirroredChat(model string, history []Content, generate generateFunc) *mirroredChat {
	return &mirroredChat{
		model:    model,
		history:  cloneHistory(history),
		generate: generate,
	}
}

func (c *mirroredChat) Send(ctx context.Context, text string) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	request := append(cloneHistory(c.history), NewTextContent(RoleUser, text))

	reply, err := c.generate(ctx, c.model, request)
	if err != nil {
		return nil, err
	}

	if reply != nil && reply.Text != "" {
		c.history = append(request, NewTextContent(RoleModel, reply.Text))
	}

	return reply, nil
}

// History returns a copy of the mirrored context.
func (c *mirroredChat) History() []Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneHistory(c.history)
}
