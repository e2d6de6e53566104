package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncrementalSession_SeedsPreamble(t *testing.T) {
	p := &fakeProvider{}

	s, err := NewIncrementalSession(context.Background(), "(AI1) m", p, "m", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "(AI1) m", s.Name())

	require.Len(t, p.seeds, 1)
	seed := p.seeds[0]
	require.Len(t, seed, 2)
	assert.Equal(t, RoleUser, seed[0].Role)
	assert.Equal(t, Preamble, seed[0].Flatten())
	assert.Equal(t, RoleModel, seed[1].Role)
	assert.Equal(t, Acknowledgement, seed[1].Flatten())
}

func TestIncrementalSession_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("returns reply text", func(t *testing.T) {
		p := &fakeProvider{replies: []*Reply{{Text: "hello there", FinishReason: "STOP"}}}
		s, err := NewIncrementalSession(ctx, "a", p, "m", zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "hello there", s.Respond(ctx, "hi"))
		assert.Equal(t, []string{"hi"}, p.sent)
	})

	t.Run("no content carries finish reason", func(t *testing.T) {
		p := &fakeProvider{replies: []*Reply{{FinishReason: "SAFETY"}}}
		s, err := NewIncrementalSession(ctx, "a", p, "m", zerolog.Nop())
		require.NoError(t, err)

		out := s.Respond(ctx, "hi")
		assert.Equal(t, "(No valid response was generated. Finish Reason: SAFETY)", out)
	})

	t.Run("missing finish reason is Unknown", func(t *testing.T) {
		p := &fakeProvider{replies: []*Reply{{}}}
		s, err := NewIncrementalSession(ctx, "a", p, "m", zerolog.Nop())
		require.NoError(t, err)

		assert.Contains(t, s.Respond(ctx, "hi"), "Finish Reason: Unknown")
	})

	t.Run("call error becomes placeholder", func(t *testing.T) {
		p := &fakeProvider{errs: []error{errors.New("quota exceeded")}}
		s, err := NewIncrementalSession(ctx, "a", p, "m", zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "(An error occurred: quota exceeded)", s.Respond(ctx, "hi"))
		// the next call goes through normally
		assert.Equal(t, "ok", s.Respond(ctx, "again"))
	})
}

func TestIncrementalSession_Sync(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	s, err := NewIncrementalSession(ctx, "a", p, "m", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Sync(ctx, `I think "yes"`))
	require.Len(t, p.sent, 1)
	assert.Equal(t, `(For context, the other AI responded: "I think "yes"")`, p.sent[0])

	p.errs = []error{errors.New("down")}
	assert.Error(t, s.Sync(ctx, "x"))
}

func TestStatelessSession_Respond(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{replies: []*Reply{{Text: "analysis"}, {FinishReason: "MAX_TOKENS"}}}
	s := NewStatelessSession("(AI2) m", p, "m", zerolog.Nop())

	history := append(SeedHistory(), NewTextContent(RoleUser, "discuss"))
	assert.Equal(t, "analysis", s.Respond(ctx, history))
	assert.Contains(t, s.Respond(ctx, history), "MAX_TOKENS")

	require.Len(t, p.requests, 2)
	assert.Len(t, p.requests[0], 3)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "(No valid response was generated. Finish Reason: Unknown)", NoContentPlaceholder(""))
	assert.Equal(t, "(An error occurred: boom)", ErrorPlaceholder(errors.New("boom")))
	assert.Equal(t, `(For context, the other AI responded: "hi")`, SyncMessage("hi"))
}
