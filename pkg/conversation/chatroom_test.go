package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/harun/parley/pkg/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRoom_BroadcastAndSync(t *testing.T) {
	h := newHarness(t, testSettings(0), "hello both", "quit")

	require.NoError(t, h.coord.Run(context.Background(), NewChatRoom()))

	msgs := h.coord.Messages()
	assert.Equal(t, []Speaker{SpeakerHuman, SpeakerAgentA, SpeakerAgentB}, speakers(msgs))
	assert.Equal(t, "a reply 1", msgs[1].Text)
	assert.Equal(t, "b reply 1", msgs[2].Text)

	assert.Equal(t, []string{"hello both", agent.SyncMessage("b reply 1")}, h.a.Sent())
	assert.Equal(t, []string{"hello both", agent.SyncMessage("a reply 1")}, h.b.Sent())
	assert.Equal(t, `(For context, the other AI responded: "b reply 1")`, h.a.Sent()[1])
}

func TestChatRoom_EmptyInputReprompts(t *testing.T) {
	h := newHarness(t, testSettings(0), "", "   ", "hi", "quit")

	require.NoError(t, h.coord.Run(context.Background(), NewChatRoom()))

	assert.Len(t, h.prompter.prompts, 4)
	for _, p := range h.prompter.prompts {
		assert.Equal(t, ChatPrompt, p)
	}
	assert.Len(t, h.coord.Messages(), 3)
}

func TestChatRoom_RespectsTurnCap(t *testing.T) {
	h := newHarness(t, testSettings(2), "one", "two", "three")

	require.NoError(t, h.coord.Run(context.Background(), NewChatRoom()))

	assert.Len(t, h.coord.Messages(), 6)
	assert.Equal(t, []string{"three"}, h.prompter.lines)
	assert.Equal(t, 2, h.coord.Messages()[5].Turn)
}

func TestChatRoom_PlaceholderIsSynced(t *testing.T) {
	h := newHarness(t, testSettings(1), "hi")
	h.b.scripted = []stubReply{{reason: "RECITATION"}}

	require.NoError(t, h.coord.Run(context.Background(), NewChatRoom()))

	msgs := h.coord.Messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[2].Text, "RECITATION")
	assert.Equal(t, agent.SyncMessage(msgs[2].Text), h.a.Sent()[1])
}

func TestChatRoom_InterruptDuringCallsIsNotRecorded(t *testing.T) {
	h := newHarness(t, testSettings(0), "hello both", "quit")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.b.scripted = []stubReply{{err: context.Canceled}}
	h.b.onCall = cancel

	err := h.coord.Run(ctx, NewChatRoom())
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []Speaker{SpeakerHuman}, speakers(h.coord.Messages()))
	assert.Equal(t, []string{"USER: hello both"}, h.recorder.Lines())
	assert.Equal(t, []string{"hello both"}, h.a.Sent(), "no context sync after an interrupt")
}

func TestChatRoom_SyncFailureIsTolerated(t *testing.T) {
	h := newHarness(t, testSettings(0), "hello", "quit")
	h.a.scripted = []stubReply{{text: "a says hi", reason: "STOP"}, {err: errors.New("sync down")}}

	require.NoError(t, h.coord.Run(context.Background(), NewChatRoom()))

	assert.Equal(t, []Speaker{SpeakerHuman, SpeakerAgentA, SpeakerAgentB}, speakers(h.coord.Messages()))
	assert.Equal(t, []string{"hello", agent.SyncMessage("b reply 1")}, h.a.Sent())
	assert.Equal(t, []string{"hello", agent.SyncMessage("a says hi")}, h.b.Sent())
}
