package tracing

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// RunIDKey is the context key for the conversation run ID
	RunIDKey ContextKey = "run_id"
	// AgentIDKey is the context key for the agent currently speaking
	AgentIDKey ContextKey = "agent_id"
	// ModeKey is the context key for the conversation mode
	ModeKey ContextKey = "mode"
)

// TraceContext holds tracing information
type TraceContext struct {
	RunID   string
	AgentID string
	Mode    string
}

// NewRunID generates a new run ID
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithAgentID adds an agent ID to the context
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, AgentIDKey, agentID)
}

// WithMode adds the conversation mode to the context
func WithMode(ctx context.Context, mode string) context.Context {
	return context.WithValue(ctx, ModeKey, mode)
}

// GetRunID retrieves the run ID from the context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetAgentID retrieves the agent ID from the context
func GetAgentID(ctx context.Context) string {
	if agentID, ok := ctx.Value(AgentIDKey).(string); ok {
		return agentID
	}
	return ""
}

// GetMode retrieves the conversation mode from the context
func GetMode(ctx context.Context) string {
	if mode, ok := ctx.Value(ModeKey).(string); ok {
		return mode
	}
	return ""
}

// FromContext extracts all tracing information from the context
func FromContext(ctx context.Context) *TraceContext {
	return &TraceContext{
		RunID:   GetRunID(ctx),
		AgentID: GetAgentID(ctx),
		Mode:    GetMode(ctx),
	}
}

// NewRunContext starts a conversation run, keeping an existing run ID if present.
func NewRunContext(ctx context.Context, mode string) context.Context {
	if GetRunID(ctx) == "" {
		ctx = WithRunID(ctx, NewRunID())
	}
	return WithMode(ctx, mode)
}
