package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	"github.com/harun/parley/pkg/agent"
	"github.com/harun/parley/pkg/transcript"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Recorder stores displayed lines and returns the cleaned text.
type Recorder interface {
	Record(label, raw string) string
}

// Renderer shows conversation output to the operator.
type Renderer interface {
	Message(label, text string)
	Thinking(label string)
	Banner(title string, lines ...string)
	Notice(format string, args ...interface{})
}

// Archiver persists structured messages. Failures are logged only.
type Archiver interface {
	Archive(ctx context.Context, msg Message) error
}

// Strategy runs one conversation mode on a Coordinator.
type Strategy interface {
	Mode() Mode
	Run(ctx context.Context, c *Coordinator) error
}

// Options configures a Coordinator.
type Options struct {
	Settings  Settings
	ProviderA agent.Provider
	ProviderB agent.Provider
	Prompter  Prompter
	Recorder  Recorder
	Renderer  Renderer
	Archiver  Archiver
	Logger    zerolog.Logger

	// Sleep waits between agent calls. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Coordinator drives a Strategy through its rounds.
type Coordinator struct {
	settings  Settings
	providerA agent.Provider
	providerB agent.Provider
	prompter  Prompter
	recorder  Recorder
	renderer  Renderer
	archiver  Archiver
	logger    zerolog.Logger
	sleep     func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	messages []Message
}

// NewCoordinator creates a coordinator. Missing sinks get terminal defaults.
func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		settings:  opts.Settings,
		providerA: opts.ProviderA,
		providerB: opts.ProviderB,
		prompter:  opts.Prompter,
		recorder:  opts.Recorder,
		renderer:  opts.Renderer,
		archiver:  opts.Archiver,
		logger:    opts.Logger,
		sleep:     opts.Sleep,
	}
	if c.prompter == nil {
		c.prompter = NewTerminal(os.Stdin, os.Stdout)
	}
	if c.recorder == nil {
		c.recorder = transcript.NewRecorder(transcript.DefaultDir)
	}
	if c.renderer == nil {
		c.renderer = transcript.NewRenderer(os.Stdout)
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	return c
}

// Settings returns the conversation settings
func (c *Coordinator) Settings() Settings {
	return c.settings
}

// Messages returns every message produced so far, in display order.
func (c *Coordinator) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Run executes strategy until the turn cap, an operator quit or a setup
// error. Setup errors are reported and end the mode with a nil error; only
// context cancellation is returned.
func (c *Coordinator) Run(ctx context.Context, strategy Strategy) error {
	mode := strategy.Mode()
	ctx = tracing.NewRunContext(ctx, string(mode))
	ctx, span := tracing.StartSpan(ctx, "parley.conversation", "conversation.run",
		attribute.Int("max_turns", c.settings.MaxTurns),
	)
	defer span.End()

	logger := tracing.LoggerFromContext(ctx, c.logger)
	logger.Info().
		Int("max_turns", c.settings.MaxTurns).
		Dur("delay", c.settings.Delay).
		Str("model_a", c.settings.ModelA).
		Str("model_b", c.settings.ModelB).
		Msg("Conversation started")

	err := strategy.Run(ctx, c)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		logger.Info().Int("messages", len(c.Messages())).Msg("Conversation finished")
		return nil
	case errors.Is(err, ErrSetup):
		logger.Warn().Err(err).Msg("Mode ended during setup")
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).Int("messages", len(c.Messages())).Msg("Conversation interrupted")
		return err
	}
}

// hasRound reports whether round (1-based, after the opening) is allowed.
func (c *Coordinator) hasRound(round int) bool {
	return c.settings.MaxTurns == 0 || round < c.settings.MaxTurns
}

// intervene asks the operator what to do before round.
func (c *Coordinator) intervene(ctx context.Context, round int) (Intervention, error) {
	prompt := fmt.Sprintf("\n--- Press Enter for Turn %d/%s, intervene, or 'quit': ", round+1, c.settings.TurnLimit())
	line, err := c.prompter.ReadLine(ctx, prompt)
	if err != nil {
		return Intervention{}, err
	}
	return ParseIntervention(line), nil
}

// pause waits the configured delay before an agent call.
func (c *Coordinator) pause(ctx context.Context) error {
	if c.settings.Delay <= 0 {
		return ctx.Err()
	}
	return c.sleep(ctx, c.settings.Delay)
}

// emit records, archives and displays one message, in that order.
func (c *Coordinator) emit(ctx context.Context, speaker Speaker, label, raw string, turn int) Message {
	clean := c.recorder.Record(label, raw)
	msg := Message{Speaker: speaker, Label: label, Text: raw, Turn: turn}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	if c.archiver != nil {
		if err := c.archiver.Archive(ctx, msg); err != nil {
			logger := tracing.LoggerFromContext(ctx, c.logger)
			logger.Warn().Err(err).Msg("Failed to archive message")
		}
	}

	c.renderer.Message(label, clean)
	observability.RecordMessage(speaker.String())
	return msg
}

// deliver emits an agent reply unless ctx ended while the agent was
// answering. Such a reply only describes the cancellation.
func (c *Coordinator) deliver(ctx context.Context, speaker Speaker, label, reply string, turn int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.emit(ctx, speaker, label, reply, turn)
	return nil
}

// wrapSetup marks err as a setup failure unless it is a cancellation.
func wrapSetup(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSetup, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
