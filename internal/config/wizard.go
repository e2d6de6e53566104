package config

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harun/parley/pkg/conversation"
)

// Wizard asks for the session settings before a conversation starts.
// Pressing Enter keeps the value shown as default.
type Wizard struct {
	prompter conversation.Prompter
	out      io.Writer
}

// NewWizard creates a wizard reading answers from prompter.
func NewWizard(prompter conversation.Prompter, out io.Writer) *Wizard {
	return &Wizard{
		prompter: prompter,
		out:      out,
	}
}

// Run returns a copy of cfg updated with the operator's answers.
func (w *Wizard) Run(ctx context.Context, cfg *Config) (*Config, error) {
	updated := *cfg

	fmt.Fprintln(w.out, "Welcome to parley")
	fmt.Fprintln(w.out, strings.Repeat("-", 49))
	fmt.Fprintln(w.out, "Let's configure your session. Press Enter to accept the default value.")

	turns, err := w.prompter.ReadLine(ctx, fmt.Sprintf("\nEnter max turns (0 for unlimited) [Default: %d]: ", updated.MaxTurns))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(turns) != "" {
		updated.MaxTurns = nonNegative(turns, DefaultMaxTurns)
	}

	delay, err := w.prompter.ReadLine(ctx, fmt.Sprintf("Enter delay in ms (1000ms = 1s) [Default: %d]: ", updated.DelayMs))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(delay) != "" {
		updated.DelayMs = nonNegative(delay, DefaultDelayMs)
	}

	modelA, err := w.prompter.ReadLine(ctx, fmt.Sprintf("Enter model for AI1 [Default: %s]: ", updated.ModelIDA))
	if err != nil {
		return nil, err
	}
	if m := strings.TrimSpace(modelA); m != "" {
		updated.ModelIDA = m
	}

	modelB, err := w.prompter.ReadLine(ctx, fmt.Sprintf("Enter model for AI2 [Default: %s]: ", updated.ModelIDB))
	if err != nil {
		return nil, err
	}
	if m := strings.TrimSpace(modelB); m != "" {
		updated.ModelIDB = m
	}

	updated.Normalize()
	return &updated, nil
}
