package cli

import (
	"fmt"

	"github.com/harun/parley/internal/config"
	"github.com/harun/parley/pkg/conversation"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Run interactive configuration wizard",
	Long: `Run the setup questions and save the answers as the new defaults.
API keys are never written to the config file; keep them in the
environment or a .env file.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	current, err := loadConfig()
	if err != nil {
		return err
	}

	wizard := config.NewWizard(conversation.NewTerminal(cmd.InOrStdin(), out), out)
	cfg, err := wizard.Run(cmd.Context(), current)
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	for _, problem := range config.NewValidator().ValidateConfig(cfg) {
		fmt.Fprintf(out, "Warning: %v\n", problem)
	}

	loader := config.NewLoader(cfgFile)
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration saved to: %s\n", loader.GetConfigPath())
	fmt.Fprintln(out, "\nYou can now start a session with: parley")

	return nil
}
