package tracing

import (
	"context"

	"github.com/rs/zerolog"
)

// LoggerFromContext adds the tracing fields present in ctx to baseLogger.
func LoggerFromContext(ctx context.Context, baseLogger zerolog.Logger) zerolog.Logger {
	tc := FromContext(ctx)
	logger := baseLogger

	if tc.RunID != "" {
		logger = logger.With().Str("run_id", tc.RunID).Logger()
	}
	if tc.AgentID != "" {
		logger = logger.With().Str("agent_id", tc.AgentID).Logger()
	}
	if tc.Mode != "" {
		logger = logger.With().Str("mode", tc.Mode).Logger()
	}

	return logger
}
