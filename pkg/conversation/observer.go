package conversation

import (
	"context"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/pkg/agent"
)

// OpeningPrompt starts an observer conversation.
const OpeningPrompt = "You may begin when ready."

// Observer relays messages between the agents: A opens, then every round
// B answers the latest message and A answers B. The operator may replace
// the forwarded message between rounds.
type Observer struct{}

// NewObserver creates the observer strategy
func NewObserver() *Observer {
	return &Observer{}
}

// Mode returns ModeObserver
func (o *Observer) Mode() Mode {
	return ModeObserver
}

// Run executes the observer dialogue.
func (o *Observer) Run(ctx context.Context, c *Coordinator) error {
	labelA, labelB := c.settings.LabelA(), c.settings.LabelB()

	agentA, err := agent.NewIncrementalSession(ctx, labelA, c.providerA, c.settings.ModelA, c.logger)
	if err != nil {
		return o.setupFailed(c, err)
	}
	agentB, err := agent.NewIncrementalSession(ctx, labelB, c.providerB, c.settings.ModelB, c.logger)
	if err != nil {
		return o.setupFailed(c, err)
	}

	c.renderer.Banner("STARTING OBSERVER MODE", "Waiting for AI1 to initiate...")

	c.renderer.Thinking(labelA)
	last := agentA.Respond(ctx, OpeningPrompt)
	if err := c.deliver(ctx, SpeakerAgentA, labelA, last, 0); err != nil {
		return err
	}

	for round := 1; c.hasRound(round); round++ {
		in, err := c.intervene(ctx, round)
		if err != nil {
			return err
		}
		if in.Action == ActionQuit {
			return nil
		}
		if in.Action == ActionOverride {
			last = in.Text
			c.emit(ctx, SpeakerHuman, HumanLabel, in.Text, round)
		}

		if err := c.pause(ctx); err != nil {
			return err
		}
		c.renderer.Thinking(labelB)
		last = agentB.Respond(ctx, last)
		if err := c.deliver(ctx, SpeakerAgentB, labelB, last, round); err != nil {
			return err
		}

		if err := c.pause(ctx); err != nil {
			return err
		}
		c.renderer.Thinking(labelA)
		last = agentA.Respond(ctx, last)
		if err := c.deliver(ctx, SpeakerAgentA, labelA, last, round); err != nil {
			return err
		}

		observability.RecordRound(string(ModeObserver))
	}

	return nil
}

func (o *Observer) setupFailed(c *Coordinator, err error) error {
	c.renderer.Notice("\nCould not start observer mode: %v", err)
	return wrapSetup(err)
}
