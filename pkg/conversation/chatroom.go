package conversation

import (
	"context"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	"github.com/harun/parley/pkg/agent"
	"golang.org/x/sync/errgroup"
)

// ChatPrompt asks the operator for the next broadcast message.
const ChatPrompt = "\nYour message: "

// ChatRoom broadcasts each operator message to both agents concurrently,
// then tells each agent what the other one answered.
type ChatRoom struct{}

// NewChatRoom creates the chat-room strategy
func NewChatRoom() *ChatRoom {
	return &ChatRoom{}
}

// Mode returns ModeChatRoom
func (r *ChatRoom) Mode() Mode {
	return ModeChatRoom
}

// Run executes the three-way chat. With a turn cap, at most MaxTurns
// rounds are played.
func (r *ChatRoom) Run(ctx context.Context, c *Coordinator) error {
	labelA, labelB := c.settings.LabelA(), c.settings.LabelB()

	agentA, err := agent.NewIncrementalSession(ctx, labelA, c.providerA, c.settings.ModelA, c.logger)
	if err != nil {
		c.renderer.Notice("\nCould not start chat room mode: %v", err)
		return wrapSetup(err)
	}
	agentB, err := agent.NewIncrementalSession(ctx, labelB, c.providerB, c.settings.ModelB, c.logger)
	if err != nil {
		c.renderer.Notice("\nCould not start chat room mode: %v", err)
		return wrapSetup(err)
	}

	c.renderer.Banner("STARTING CHAT ROOM MODE", "3-way chat is active. Type 'quit' to exit.")

	for round := 1; c.settings.MaxTurns == 0 || round <= c.settings.MaxTurns; {
		line, err := c.prompter.ReadLine(ctx, ChatPrompt)
		if err != nil {
			return err
		}
		in := ParseIntervention(line)
		switch in.Action {
		case ActionQuit:
			return nil
		case ActionAdvance:
			continue
		}

		c.emit(ctx, SpeakerHuman, HumanLabel, in.Text, round)

		if err := c.pause(ctx); err != nil {
			return err
		}
		c.renderer.Thinking(labelA + " & " + labelB)

		var replyA, replyB string
		var g errgroup.Group
		g.Go(func() error {
			replyA = agentA.Respond(ctx, in.Text)
			return nil
		})
		g.Go(func() error {
			replyB = agentB.Respond(ctx, in.Text)
			return nil
		})
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		c.emit(ctx, SpeakerAgentA, labelA, replyA, round)
		c.emit(ctx, SpeakerAgentB, labelB, replyB, round)

		var syncs errgroup.Group
		syncs.Go(func() error { return agentA.Sync(ctx, replyB) })
		syncs.Go(func() error { return agentB.Sync(ctx, replyA) })
		if err := syncs.Wait(); err != nil {
			logger := tracing.LoggerFromContext(ctx, c.logger)
			logger.Warn().Err(err).Int("round", round).Msg("Context sync incomplete")
		}

		observability.RecordRound(string(ModeChatRoom))
		round++
	}

	return nil
}
