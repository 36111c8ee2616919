package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields.
// An api_key that still references an unset variable is cleared so that the
// missing credential is reported instead of sending the literal placeholder.
func expandConfigEnvVars(cfg *Config) {
	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	if envVarPattern.MatchString(cfg.LLM.APIKey) {
		cfg.LLM.APIKey = ""
	}
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
	cfg.LLM.Model = expandEnvVars(cfg.LLM.Model)
	cfg.Chat.SystemPrompt = expandEnvVars(cfg.Chat.SystemPrompt)
	cfg.Server.Addr = expandEnvVars(cfg.Server.Addr)
	cfg.Server.MetricsAddr = expandEnvVars(cfg.Server.MetricsAddr)
}
