package config

import (
	"fmt"
	"strings"
)

var (
	validProviders = []string{"gemini", "openai", "anthropic"}
	validLevels    = []string{"debug", "info", "warn", "error"}
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProvider validates an LLM provider name
func (v *Validator) ValidateProvider(provider string) error {
	for _, valid := range validProviders {
		if provider == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid provider %q (must be one of: %s)", provider, strings.Join(validProviders, ", "))
}

// ValidateAPIKey checks the key format where the provider has a known prefix.
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if key == "" {
		return fmt.Errorf("%s API key cannot be empty", provider)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateConfig collects every problem instead of stopping at the first.
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errs []error

	for _, p := range []struct{ agent, provider string }{{"A", cfg.ProviderA}, {"B", cfg.ProviderB}} {
		if err := v.ValidateProvider(p.provider); err != nil {
			errs = append(errs, fmt.Errorf("agent %s: %w", p.agent, err))
			continue
		}
		if err := v.ValidateAPIKey(cfg.APIKey(p.provider), p.provider); err != nil {
			errs = append(errs, fmt.Errorf("agent %s: %w", p.agent, err))
		}
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errs
}
