package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/harun/parley/internal/config"
	"github.com/harun/parley/internal/logger"
	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	"github.com/harun/parley/pkg/agent"
	"github.com/harun/parley/pkg/archive"
	"github.com/harun/parley/pkg/conversation"
	"github.com/harun/parley/pkg/transcript"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// newProvider builds an agent backend. Replaced in tests.
var newProvider = func(ctx context.Context, name, apiKey string) (agent.Provider, error) {
	return (&agent.ProviderFactory{}).NewProvider(ctx, name, apiKey)
}

// loadConfig reads the config and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if maxTurns != unset {
		cfg.MaxTurns = maxTurns
	}
	if delayMs != unset {
		cfg.DelayMs = delayMs
	}
	overrides := []struct {
		value  string
		target *string
	}{
		{modelA, &cfg.ModelIDA},
		{modelB, &cfg.ModelIDB},
		{providerA, &cfg.ProviderA},
		{providerB, &cfg.ProviderB},
		{transcriptDir, &cfg.TranscriptDir},
		{archiveDir, &cfg.ArchiveDir},
		{metricsAddr, &cfg.MetricsAddr},
		{logLevel, &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(o.value); v != "" {
			*o.target = v
		}
	}

	cfg.Normalize()
	return cfg, nil
}

func setupLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Redaction: cfg.Logging.Redaction,
	})
}

// runSession runs one conversation. With an empty mode the operator picks
// one from the menu. Only configuration problems are returned as errors.
func runSession(cmd *cobra.Command, mode conversation.Mode, strategy conversation.Strategy) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lg, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	if err := tracing.InitOpenTelemetry("parley"); err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tracing.ShutdownOpenTelemetry(shutdownCtx)
	}()

	if cfg.MetricsAddr != "" {
		srv, errCh := observability.StartServer(cfg.MetricsAddr)
		go func() {
			if err, ok := <-errCh; ok && err != nil {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	prompter := conversation.NewTerminal(cmd.InOrStdin(), out)

	if !useDefaults {
		cfg, err = config.NewWizard(prompter, out).Run(ctx, cfg)
		if err != nil {
			return interrupted(out, err)
		}
	}

	runID := tracing.NewRunID()
	ctx = tracing.WithRunID(ctx, runID)
	sessionLog := tracing.LoggerFromContext(ctx, lg.Zerolog())
	sessionLog.Info().Str("config", cfgFile).Msg("Session configured")

	recorder := transcript.NewRecorder(cfg.TranscriptDir)
	renderer := transcript.NewRenderer(out)
	sessionLog.Debug().Str("transcript_dir", recorder.Dir()).Msg("Transcript recorder ready")

	if mode == "" {
		fmt.Fprintln(out, "\n"+strings.Repeat("-", 38))
		choice, err := prompter.ReadLine(ctx, conversation.MenuPrompt)
		if err != nil {
			return interrupted(out, err)
		}
		mode, err = conversation.ParseMode(choice)
		if err != nil {
			fmt.Fprintln(out, "Invalid choice. Exiting.")
			sessionLog.Warn().Str("choice", choice).Msg("Invalid mode selection")
			return finish(out, recorder)
		}
	}
	if strategy == nil {
		strategy = strategyFor(mode)
	}

	coord, err := newCoordinator(ctx, cfg, prompter, recorder, renderer, runID)
	if err != nil {
		return err
	}

	if err := coord.Run(ctx, strategy); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\n\nSession interrupted. Exiting...")
			saveTranscript(out, recorder)
			return nil
		}
		return err
	}

	return finish(out, recorder)
}

func newCoordinator(ctx context.Context, cfg *config.Config, prompter conversation.Prompter, recorder *transcript.Recorder, renderer *transcript.Renderer, runID string) (*conversation.Coordinator, error) {
	provA, err := newProvider(ctx, cfg.ProviderA, cfg.APIKey(cfg.ProviderA))
	if err != nil {
		return nil, fmt.Errorf("failed to create provider for AI1: %w", err)
	}
	provB, err := newProvider(ctx, cfg.ProviderB, cfg.APIKey(cfg.ProviderB))
	if err != nil {
		return nil, fmt.Errorf("failed to create provider for AI2: %w", err)
	}

	opts := conversation.Options{
		Settings:  cfg.Settings(),
		ProviderA: provA,
		ProviderB: provB,
		Prompter:  prompter,
		Recorder:  recorder,
		Renderer:  renderer,
		Logger:    log.Logger,
	}

	if cfg.ArchiveDir != "" {
		store, err := archive.New(cfg.ArchiveDir)
		if err != nil {
			// the plain transcript is still written
			log.Warn().Err(err).Str("dir", cfg.ArchiveDir).Msg("Archive disabled")
		} else {
			opts.Archiver = archive.NewSink(store, runID)
		}
	}

	return conversation.NewCoordinator(opts), nil
}

func strategyFor(mode conversation.Mode) conversation.Strategy {
	switch mode {
	case conversation.ModeChatRoom:
		return conversation.NewChatRoom()
	case conversation.ModeExplore:
		return conversation.NewExplore("", "")
	default:
		return conversation.NewObserver()
	}
}

// interrupted handles a prompt that ended before the conversation began.
func interrupted(out io.Writer, err error) error {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "\n\nSession interrupted. Exiting...")
		return nil
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func finish(out io.Writer, recorder *transcript.Recorder) error {
	fmt.Fprintln(out, "\nSESSION COMPLETE")
	saveTranscript(out, recorder)
	return nil
}

func saveTranscript(out io.Writer, recorder *transcript.Recorder) {
	path, err := recorder.Flush()
	if err != nil {
		fmt.Fprintf(out, "Error saving conversation: %v\n", err)
		log.Error().Err(err).Msg("Failed to save transcript")
		return
	}
	if path != "" {
		fmt.Fprintf(out, "\nConversation saved to: %s\n", path)
		log.Info().Str("path", path).Msg("Transcript saved")
	}
}
