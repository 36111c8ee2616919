package chat

import "fmt"

// ConfigurationError reports an assembler that cannot be built from its config
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProviderError wraps any failure of the text-generation call
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
