package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that supply provider credentials when the config leaves api_key unset
const (
	GoogleAPIKeyEnv = "GOOGLE_API_KEY"
	OpenAIAPIKeyEnv = "OPENAI_API_KEY"
)

const defaultTemperature float32 = 0.7

// Config represents the full application configuration
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Chat   ChatConfig   `yaml:"chat"`
	Server ServerConfig `yaml:"server"`
}

// LLMConfig contains text-generation provider settings
type LLMConfig struct {
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	APIKey          string  `yaml:"api_key"`
	BaseURL         string   `yaml:"base_url,omitempty"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	Temperature     *float32 `yaml:"temperature"` // nil means unset; 0 is a valid choice
	TimeoutSeconds  int      `yaml:"timeout_seconds"`
}

// Timeout returns the per-call deadline for a generation request
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChatConfig contains prompt assembly settings
type ChatConfig struct {
	// SystemPrompt overrides the built-in assistant instructions when non-empty
	SystemPrompt string `yaml:"system_prompt"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	MetricsAddr    string   `yaml:"metrics_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a config built purely from defaults and the environment
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadOrDefault loads the config file found for explicit, falling back to Default
// when no file exists in any of the known locations
func LoadOrDefault(explicit string) (*Config, string, error) {
	path := FindConfigPath(explicit)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		"skinchat.yaml",
		"skinchat.yml",
		".skinchat.yaml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "skinchat", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.Model = "gpt-4o-mini"
		default:
			cfg.LLM.Model = "gemini-1.5-flash"
		}
	}
	// Credential comes from the environment unless the file sets it
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv(OpenAIAPIKeyEnv)
		default:
			cfg.LLM.APIKey = os.Getenv(GoogleAPIKeyEnv)
		}
	}
	if cfg.LLM.MaxOutputTokens == 0 {
		cfg.LLM.MaxOutputTokens = 1024
	}
	if cfg.LLM.Temperature == nil {
		t := defaultTemperature
		cfg.LLM.Temperature = &t
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}
	// MetricsAddr stays empty unless configured: no metrics listener by default
}
