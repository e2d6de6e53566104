package agent

import (
	"context"
	"sync"
)

// fakeProvider scripts replies and records every request it receives.
type fakeProvider struct {
	mu       sync.Mutex
	replies  []*Reply
	errs     []error
	seeds    [][]Content
	requests [][]Content
	sent     []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) StartChat(ctx context.Context, model string, history []Content) (Chat, error) {
	p.mu.Lock()
	p.seeds = append(p.seeds, cloneHistory(history))
	p.mu.Unlock()
	return &fakeChat{provider: p}, nil
}

func (p *fakeProvider) Generate(ctx context.Context, model string, history []Content) (*Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, cloneHistory(history))
	return p.next()
}

func (p *fakeProvider) next() (*Reply, error) {
	var (
		reply *Reply
		err   error
	)
	if len(p.errs) > 0 {
		err, p.errs = p.errs[0], p.errs[1:]
	}
	if len(p.replies) > 0 {
		reply, p.replies = p.replies[0], p.replies[1:]
	}
	if err != nil {
		return nil, err
	}
	if reply == nil {
		reply = &Reply{Text: "ok", FinishReason: "STOP"}
	}
	return reply, nil
}

type fakeChat struct {
	provider *fakeProvider
}

func (c *fakeChat) Send(ctx context.Context, text string) (*Reply, error) {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	c.provider.sent = append(c.provider.sent, text)
	return c.provider.next()
}

type uploadingProvider struct {
	fakeProvider
	paths []string
}

func (p *uploadingProvider) Upload(ctx context.Context, path, mimeType string) (*Artifact, error) {
	p.paths = append(p.paths, path)
	return &Artifact{URI: "https://files.example/abc", Name: "remote"}, nil
}

// otherBackend is a fakeProvider reporting a different backend name.
type otherBackend struct {
	fakeProvider
}

func (p *otherBackend) Name() string { return "other" }
