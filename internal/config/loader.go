package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
	envFiles   []string
}

// NewLoader creates a new config loader. An empty path means the default
// location under the user's home directory.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envFiles:   []string{".env"},
	}
}

// WithEnvFiles overrides the dotenv files read before the environment.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// Load reads .env files, the config file (if present) and PARLEY_* variables.
func (l *Loader) Load() (*Config, error) {
	for _, f := range l.envFiles {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
	}

	configPath := l.GetConfigPath()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PARLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("credentials.gemini_api_key", "GEMINI_API_KEY", "PARLEY_CREDENTIALS_GEMINI_API_KEY")
	_ = v.BindEnv("credentials.openai_api_key", "OPENAI_API_KEY", "PARLEY_CREDENTIALS_OPENAI_API_KEY")
	_ = v.BindEnv("credentials.anthropic_api_key", "ANTHROPIC_API_KEY", "PARLEY_CREDENTIALS_ANTHROPIC_API_KEY")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType(configType(configPath))
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Non-numeric or negative values silently revert to the default.
	v.Set("max_turns", nonNegative(v.GetString("max_turns"), DefaultMaxTurns))
	v.Set("delay_ms", nonNegative(v.GetString("delay_ms"), DefaultDelayMs))

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Normalize()

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = "convos"
	}
	if cfg.Logging.File == "" && cfg.DataDir != "" {
		cfg.Logging.File = filepath.Join(cfg.DataDir, "parley.log")
	}

	return cfg, nil
}

// Save writes the non-secret settings to the config file.
func (l *Loader) Save(cfg *Config) error {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to determine config path")
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType(configPath))

	v.Set("max_turns", cfg.MaxTurns)
	v.Set("delay_ms", cfg.DelayMs)
	v.Set("model_id_a", cfg.ModelIDA)
	v.Set("model_id_b", cfg.ModelIDB)
	v.Set("provider_a", cfg.ProviderA)
	v.Set("provider_b", cfg.ProviderB)
	v.Set("transcript_dir", cfg.TranscriptDir)
	v.Set("archive_dir", cfg.ArchiveDir)
	v.Set("data_dir", cfg.DataDir)
	v.Set("metrics_addr", cfg.MetricsAddr)
	v.Set("logging", map[string]interface{}{
		"level":     cfg.Logging.Level,
		"file":      cfg.Logging.File,
		"console":   cfg.Logging.Console,
		"redaction": cfg.Logging.Redaction,
	})

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	dir := defaultDataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "parley.json")
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("max_turns", d.MaxTurns)
	v.SetDefault("delay_ms", d.DelayMs)
	v.SetDefault("model_id_a", d.ModelIDA)
	v.SetDefault("model_id_b", d.ModelIDB)
	v.SetDefault("provider_a", d.ProviderA)
	v.SetDefault("provider_b", d.ProviderB)
	v.SetDefault("transcript_dir", "")
	v.SetDefault("archive_dir", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.console", d.Logging.Console)
	v.SetDefault("logging.redaction", d.Logging.Redaction)
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".parley")
}

// nonNegative reverts to def on anything but a non-negative integer.
func nonNegative(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	return n
}
