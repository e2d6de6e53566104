package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harun/parley/pkg/conversation"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a value is missing or invalid.
const (
	DefaultMaxTurns = 10
	DefaultDelayMs  = 1000
	DefaultModelA   = "gemini-2.5-flash"
	DefaultModelB   = "gemini-2.5-pro"
	DefaultProvider = "gemini"
)

// ErrMissingCredential is returned when an agent's provider has no API key.
var ErrMissingCredential = errors.New("missing credential")

// Config represents the parley configuration
type Config struct {
	// Conversation pacing
	MaxTurns int `json:"max_turns" yaml:"max_turns" mapstructure:"max_turns"`
	DelayMs  int `json:"delay_ms" yaml:"delay_ms" mapstructure:"delay_ms"`

	// Agents
	ModelIDA  string `json:"model_id_a" yaml:"model_id_a" mapstructure:"model_id_a"`
	ModelIDB  string `json:"model_id_b" yaml:"model_id_b" mapstructure:"model_id_b"`
	ProviderA string `json:"provider_a" yaml:"provider_a" mapstructure:"provider_a"`
	ProviderB string `json:"provider_b" yaml:"provider_b" mapstructure:"provider_b"`

	Credentials CredentialsConfig `json:"credentials" yaml:"-" mapstructure:"credentials"`

	// Output locations
	TranscriptDir string `json:"transcript_dir" yaml:"transcript_dir" mapstructure:"transcript_dir"`
	ArchiveDir    string `json:"archive_dir" yaml:"archive_dir" mapstructure:"archive_dir"`
	DataDir       string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Serve prometheus metrics on this address while a session runs
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr" mapstructure:"metrics_addr"`

	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// CredentialsConfig holds provider API keys. Usually sourced from the
// environment or a .env file rather than the config file.
type CredentialsConfig struct {
	GeminiAPIKey    string `json:"gemini_api_key" mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `json:"openai_api_key" mapstructure:"openai_api_key"`
	AnthropicAPIKey string `json:"anthropic_api_key" mapstructure:"anthropic_api_key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" yaml:"level" mapstructure:"level"`
	File      string `json:"file" yaml:"file" mapstructure:"file"`
	Console   bool   `json:"console" yaml:"console" mapstructure:"console"`
	Redaction bool   `json:"redaction" yaml:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		MaxTurns:  DefaultMaxTurns,
		DelayMs:   DefaultDelayMs,
		ModelIDA:  DefaultModelA,
		ModelIDB:  DefaultModelB,
		ProviderA: DefaultProvider,
		ProviderB: DefaultProvider,
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
	}
}

// String renders the config as YAML. Credentials are never included.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

// Normalize reverts out-of-range or empty values to their defaults.
func (c *Config) Normalize() {
	if c.MaxTurns < 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.DelayMs < 0 {
		c.DelayMs = DefaultDelayMs
	}
	if strings.TrimSpace(c.ModelIDA) == "" {
		c.ModelIDA = DefaultModelA
	}
	if strings.TrimSpace(c.ModelIDB) == "" {
		c.ModelIDB = DefaultModelB
	}
	c.ProviderA = strings.ToLower(strings.TrimSpace(c.ProviderA))
	if c.ProviderA == "" {
		c.ProviderA = DefaultProvider
	}
	c.ProviderB = strings.ToLower(strings.TrimSpace(c.ProviderB))
	if c.ProviderB == "" {
		c.ProviderB = DefaultProvider
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// APIKey returns the configured key for a provider.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.Credentials.GeminiAPIKey
	case "openai":
		return c.Credentials.OpenAIAPIKey
	case "anthropic":
		return c.Credentials.AnthropicAPIKey
	default:
		return ""
	}
}

// Validate checks providers and that every provider in use has a credential.
func (c *Config) Validate() error {
	v := NewValidator()

	agents := []struct {
		name     string
		provider string
	}{
		{"A", c.ProviderA},
		{"B", c.ProviderB},
	}

	for _, a := range agents {
		if err := v.ValidateProvider(a.provider); err != nil {
			return fmt.Errorf("agent %s: %w", a.name, err)
		}
		if strings.TrimSpace(c.APIKey(a.provider)) == "" {
			return fmt.Errorf("%w: %s not found for agent %s (%s), check your environment or .env file",
				ErrMissingCredential, EnvVarForProvider(a.provider), a.name, a.provider)
		}
	}

	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}

// Settings returns the immutable conversation settings for this config.
func (c *Config) Settings() conversation.Settings {
	return conversation.Settings{
		MaxTurns: c.MaxTurns,
		Delay:    time.Duration(c.DelayMs) * time.Millisecond,
		ModelA:   c.ModelIDA,
		ModelB:   c.ModelIDB,
	}
}

// EnvVarForProvider names the environment variable holding a provider's key.
func EnvVarForProvider(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}
