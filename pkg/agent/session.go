package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const unknownReason = "Unknown"

// NoContentPlaceholder is the text used when a call returned nothing usable.
func NoContentPlaceholder(reason string) string {
	if reason == "" {
		reason = unknownReason
	}
	return fmt.Sprintf("(No valid response was generated. Finish Reason: %s)", reason)
}

// ErrorPlaceholder is the text used when a call failed.
func ErrorPlaceholder(err error) string {
	return fmt.Sprintf("(An error occurred: %s)", err.Error())
}

// SyncMessage tells one agent what the other one answered.
func SyncMessage(otherReply string) string {
	return fmt.Sprintf("(For context, the other AI responded: \"%s\")", otherReply)
}

// IncrementalSession is an agent with a persistent, growing chat context.
type IncrementalSession struct {
	name   string
	chat   Chat
	logger zerolog.Logger
}

// NewIncrementalSession opens a chat on provider seeded with the preamble.
func NewIncrementalSession(ctx context.Context, name string, provider Provider, model string, logger zerolog.Logger) (*IncrementalSession, error) {
	chat, err := provider.StartChat(ctx, model, SeedHistory())
	if err != nil {
		return nil, fmt.Errorf("starting chat for %s: %w", name, err)
	}

	return &IncrementalSession{
		name:   name,
		chat:   chat,
		logger: logger.With().Str("agent", name).Str("provider", provider.Name()).Str("model", model).Logger(),
	}, nil
}

// Name returns the display name of the agent
func (s *IncrementalSession) Name() string {
	return s.name
}

// Respond sends input and returns the reply or a placeholder.
func (s *IncrementalSession) Respond(ctx context.Context, input string) string {
	return respond(ctx, s.name, s.logger, func(ctx context.Context) (*Reply, error) {
		return s.chat.Send(ctx, input)
	})
}

// Sync informs the agent of the other agent's reply. The answer is dropped.
func (s *IncrementalSession) Sync(ctx context.Context, otherReply string) error {
	ctx = tracing.WithAgentID(ctx, s.name)
	ctx, span := tracing.StartSpan(ctx, "parley.agent", "agent.sync")
	defer span.End()

	if _, err := s.chat.Send(ctx, SyncMessage(otherReply)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Warn().Err(err).Msg("Context sync failed")
		return fmt.Errorf("syncing %s: %w", s.name, err)
	}
	return nil
}

// StatelessSession is an agent without context: the caller owns the history.
type StatelessSession struct {
	name     string
	provider Provider
	model    string
	logger   zerolog.Logger
}

// NewStatelessSession creates a stateless agent on provider.
func NewStatelessSession(name string, provider Provider, model string, logger zerolog.Logger) *StatelessSession {
	return &StatelessSession{
		name:     name,
		provider: provider,
		model:    model,
		logger:   logger.With().Str("agent", name).Str("provider", provider.Name()).Str("model", model).Logger(),
	}
}

// Name returns the display name of the agent
func (s *StatelessSession) Name() string {
	return s.name
}

// Respond submits the entire history and returns the reply or a placeholder.
func (s *StatelessSession) Respond(ctx context.Context, history []Content) string {
	return respond(ctx, s.name, s.logger, func(ctx context.Context) (*Reply, error) {
		return s.provider.Generate(ctx, s.model, history)
	}, attribute.Int("history_len", len(history)))
}

func respond(ctx context.Context, name string, base zerolog.Logger, call func(context.Context) (*Reply, error), attrs ...attribute.KeyValue) string {
	ctx = tracing.WithAgentID(ctx, name)
	ctx, span := tracing.StartSpan(ctx, "parley.agent", "agent.respond", attrs...)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, base)

	start := time.Now()
	reply, err := call(ctx)
	elapsed := time.Since(start)

	if err != nil {
		observability.RecordAgentResponse(name, observability.StatusError, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Dur("duration", elapsed).Msg("Agent call failed")
		return ErrorPlaceholder(err)
	}

	if reply == nil || reply.Text == "" {
		reason := ""
		if reply != nil {
			reason = reply.FinishReason
		}
		observability.RecordAgentResponse(name, observability.StatusNoContent, elapsed)
		span.SetStatus(codes.Error, "no content")
		logger.Warn().Str("finish_reason", reason).Dur("duration", elapsed).Msg("Agent returned no valid content")
		return NoContentPlaceholder(reason)
	}

	observability.RecordAgentResponse(name, observability.StatusOK, elapsed)
	span.SetAttributes(attribute.String("finish_reason", reply.FinishReason))
	logger.Debug().Str("finish_reason", reply.FinishReason).Dur("duration", elapsed).Int("chars", len(reply.Text)).Msg("Agent responded")
	return reply.Text
}
