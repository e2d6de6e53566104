package archive

import (
	"context"

	"github.com/harun/parley/internal/tracing"
	"github.com/harun/parley/pkg/conversation"
)

// Sink archives conversation messages of one run.
type Sink struct {
	store *Store
	runID string
}

// NewSink binds store to runID. An empty runID is taken from the context
// of each message.
func NewSink(store *Store, runID string) *Sink {
	return &Sink{store: store, runID: runID}
}

// Archive appends msg to the run.
func (s *Sink) Archive(ctx context.Context, msg conversation.Message) error {
	runID := s.runID
	if runID == "" {
		runID = tracing.GetRunID(ctx)
	}

	return s.store.Append(ctx, runID, Entry{
		Mode:    tracing.GetMode(ctx),
		Speaker: msg.Speaker.String(),
		Label:   msg.Label,
		Text:    msg.Text,
		Turn:    msg.Turn,
	})
}
