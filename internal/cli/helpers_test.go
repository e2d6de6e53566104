package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harun/parley/pkg/agent"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// echoProvider answers without any network access.
type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }

func (echoProvider) StartChat(ctx context.Context, model string, history []agent.Content) (agent.Chat, error) {
	return echoChat{model: model}, nil
}

func (echoProvider) Generate(ctx context.Context, model string, history []agent.Content) (*agent.Reply, error) {
	return &agent.Reply{Text: model + " read " + history[len(history)-1].Flatten(), FinishReason: "STOP"}, nil
}

type echoChat struct {
	model string
}

func (c echoChat) Send(ctx context.Context, text string) (*agent.Reply, error) {
	return &agent.Reply{Text: c.model + " heard: " + text, FinishReason: "STOP"}, nil
}

// resetFlags restores every flag, including help and version, since the
// command tree is shared between tests.
func resetFlags() {
	resetCommandFlags(GetRootCmd())
}

func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCommandFlags(c)
	}
}

// sandbox isolates HOME and credentials and stubs the providers.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	original := newProvider
	newProvider = func(ctx context.Context, name, apiKey string) (agent.Provider, error) {
		return echoProvider{}, nil
	}
	t.Cleanup(func() { newProvider = original })

	return home
}

func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	cmd := GetRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func configPath(home string) string {
	return filepath.Join(home, "parley.json")
}
