package config

import (
	"fmt"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Secrets are all-or-nothing at startup: a bot that cannot reach one of its
// downstream services must not start serving events at all.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// Required secrets.
	if c.TelegramBotToken == "" {
		return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN environment variable is required", ErrMissingBotToken)
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}
	if c.GoogleCSEID == "" {
		return fmt.Errorf("%w: GOOGLE_CSE_ID environment variable is required", ErrMissingSearchEngineID)
	}

	// Generation configuration.
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("%w: must be between 1 and %d, got %d",
			ErrInvalidHistoryLimit, MaxHistoryLimit, c.HistoryLimit)
	}

	// Outbound HTTP and dispatch limits.
	if c.HTTPTimeoutSeconds < 1 || c.HTTPTimeoutSeconds > 300 {
		return fmt.Errorf("%w: must be between 1 and 300 seconds, got %d",
			ErrInvalidHTTPTimeout, c.HTTPTimeoutSeconds)
	}
	if c.MaxInFlight < 1 || c.MaxInFlight > 1024 {
		return fmt.Errorf("%w: must be between 1 and 1024, got %d",
			ErrInvalidMaxInFlight, c.MaxInFlight)
	}

	// PostgreSQL configuration.
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d",
			ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("postgres_ssl_mode %q is not valid, must be one of: %v",
			c.PostgresSSLMode, validSSLModes)
	}

	return nil
}
