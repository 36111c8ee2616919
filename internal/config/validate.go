package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	switch cfg.LLM.Provider {
	case "":
		errs = append(errs, ValidationError{"llm.provider", "required"})
	case "gemini", "openai":
	default:
		errs = append(errs, ValidationError{"llm.provider", "must be 'gemini' or 'openai'"})
	}

	if cfg.LLM.APIKey == "" {
		errs = append(errs, ValidationError{"llm.api_key", fmt.Sprintf("required (set it in the config file or via %s)", CredentialEnv(cfg.LLM.Provider))})
	}

	if cfg.LLM.MaxOutputTokens < 0 {
		errs = append(errs, ValidationError{"llm.max_output_tokens", "must not be negative"})
	}

	if t := cfg.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, ValidationError{"llm.temperature", "must be between 0 and 2"})
	}

	if cfg.LLM.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"llm.timeout_seconds", "must not be negative"})
	}

	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, ValidationError{"server.max_body_bytes", "must not be negative"})
	}

	for i, origin := range cfg.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{fmt.Sprintf("server.allowed_origins[%d]", i), "must be '*' or an http(s) origin"})
		}
	}

	return errs
}

// CredentialEnv names the environment variable read for a provider's API key
func CredentialEnv(provider string) string {
	if provider == "openai" {
		return OpenAIAPIKeyEnv
	}
	return GoogleAPIKeyEnv
}
