package conversation

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/harun/parley/pkg/agent"
	"github.com/harun/parley/pkg/transcript"
	"github.com/rs/zerolog"
)

type stubReply struct {
	text   string
	reason string
	err    error
}

// stubProvider answers "<name> reply <n>" unless a reply is scripted.
type stubProvider struct {
	mu       sync.Mutex
	name     string
	scripted []stubReply
	calls    int
	chats    int
	sent     []string
	requests [][]agent.Content
	// onCall runs before every answer, e.g. to cancel the run mid-call.
	onCall func()
}

func newStub(name string, scripted ...stubReply) *stubProvider {
	return &stubProvider{name: name, scripted: scripted}
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) StartChat(ctx context.Context, model string, history []agent.Content) (agent.Chat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chats++
	return &stubChat{provider: p}, nil
}

func (p *stubProvider) Generate(ctx context.Context, model string, history []agent.Content) (*agent.Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot := make([]agent.Content, len(history))
	copy(snapshot, history)
	p.requests = append(p.requests, snapshot)
	return p.nextLocked()
}

func (p *stubProvider) nextLocked() (*agent.Reply, error) {
	p.calls++
	if p.onCall != nil {
		p.onCall()
	}
	if len(p.scripted) > 0 {
		r := p.scripted[0]
		p.scripted = p.scripted[1:]
		if r.err != nil {
			return nil, r.err
		}
		return &agent.Reply{Text: r.text, FinishReason: r.reason}, nil
	}
	return &agent.Reply{Text: fmt.Sprintf("%s reply %d", p.name, p.calls), FinishReason: "STOP"}, nil
}

func (p *stubProvider) Sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	copy(out, p.sent)
	return out
}

type stubChat struct {
	provider *stubProvider
}

func (c *stubChat) Send(ctx context.Context, text string) (*agent.Reply, error) {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	c.provider.sent = append(c.provider.sent, text)
	return c.provider.nextLocked()
}

// scriptedPrompter replays lines and then reports io.EOF.
type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (s *scriptedPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type memoryArchiver struct {
	messages []Message
}

func (m *memoryArchiver) Archive(ctx context.Context, msg Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

type harness struct {
	a, b     *stubProvider
	prompter *scriptedPrompter
	recorder *transcript.Recorder
	archiver *memoryArchiver
	coord    *Coordinator
}

func newHarness(t *testing.T, settings Settings, lines ...string) *harness {
	t.Helper()
	h := &harness{
		a:        newStub("a"),
		b:        newStub("b"),
		prompter: &scriptedPrompter{lines: lines},
		recorder: transcript.NewRecorder(t.TempDir()),
		archiver: &memoryArchiver{},
	}
	h.coord = NewCoordinator(Options{
		Settings:  settings,
		ProviderA: h.a,
		ProviderB: h.b,
		Prompter:  h.prompter,
		Recorder:  h.recorder,
		Renderer:  transcript.NewRenderer(io.Discard),
		Archiver:  h.archiver,
		Logger:    zerolog.Nop(),
	})
	return h
}

func testSettings(maxTurns int) Settings {
	return Settings{MaxTurns: maxTurns, ModelA: "model-a", ModelB: "model-b"}
}

func speakers(msgs []Message) []Speaker {
	out := make([]Speaker, len(msgs))
	for i, m := range msgs {
		out[i] = m.Speaker
	}
	return out
}
