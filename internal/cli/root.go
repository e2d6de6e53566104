package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string

	// Per-run overrides; unset values keep the configured ones.
	maxTurns      int
	delayMs       int
	modelA        string
	modelB        string
	providerA     string
	providerB     string
	transcriptDir string
	archiveDir    string
	metricsAddr   string
	useDefaults   bool
)

// unset marks numeric flags that were not given.
const unset = -1

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley - turn-based conversations between two AI agents",
	Long: `Parley relays a conversation between two independently configured AI
agents, optionally with you in the loop. Run it without a subcommand to
pick a mode interactively:

  1. Observer mode: the agents talk to each other, you may intervene
  2. Chat room mode: a 3-way chat between you and both agents
  3. Cooperative exploration: the agents discuss a file together

Every session is saved as a transcript when it ends.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, "", nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.parley/parley.json)")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	flags.IntVar(&maxTurns, "max-turns", unset, "maximum turns, 0 for unlimited (default from config)")
	flags.IntVar(&delayMs, "delay-ms", unset, "delay before each agent call in milliseconds (default from config)")
	flags.StringVar(&modelA, "model-a", "", "model for AI1")
	flags.StringVar(&modelB, "model-b", "", "model for AI2")
	flags.StringVar(&providerA, "provider-a", "", "provider for AI1 (gemini, openai, anthropic)")
	flags.StringVar(&providerB, "provider-b", "", "provider for AI2 (gemini, openai, anthropic)")
	flags.StringVar(&transcriptDir, "transcript-dir", "", "directory for saved transcripts")
	flags.StringVar(&archiveDir, "archive-dir", "", "directory for the JSONL message archive (disabled when empty)")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the session")
	flags.BoolVar(&useDefaults, "defaults", false, "skip the setup questions and use the configured values")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
