package config

import (
	"errors"
	"testing"
)

// validConfig returns a configuration that passes Validate().
func validConfig() *Config {
	return &Config{
		TelegramBotToken:   "123456:test-token",
		GeminiAPIKey:       "test-api-key",
		GoogleCSEID:        "test-cse-id",
		ModelName:          DefaultModelName,
		HistoryLimit:       DefaultHistoryLimit,
		HTTPTimeoutSeconds: 30,
		MaxInFlight:        32,
		DownloadDir:        "downloads",
		PostgresHost:       "localhost",
		PostgresPort:       5432,
		PostgresUser:       "telegem",
		PostgresPassword:   "secret",
		PostgresDBName:     "telegem",
		PostgresSSLMode:    "disable",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var c *Config
	if err := c.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil config = %v, want ErrConfigNil", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing bot token", func(c *Config) { c.TelegramBotToken = "" }, ErrMissingBotToken},
		{"missing api key", func(c *Config) { c.GeminiAPIKey = "" }, ErrMissingAPIKey},
		{"missing cse id", func(c *Config) { c.GoogleCSEID = "" }, ErrMissingSearchEngineID},
		{"empty model name", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"zero history limit", func(c *Config) { c.HistoryLimit = 0 }, ErrInvalidHistoryLimit},
		{"negative history limit", func(c *Config) { c.HistoryLimit = -1 }, ErrInvalidHistoryLimit},
		{"history limit too large", func(c *Config) { c.HistoryLimit = MaxHistoryLimit + 1 }, ErrInvalidHistoryLimit},
		{"zero timeout", func(c *Config) { c.HTTPTimeoutSeconds = 0 }, ErrInvalidHTTPTimeout},
		{"timeout too large", func(c *Config) { c.HTTPTimeoutSeconds = 301 }, ErrInvalidHTTPTimeout},
		{"zero max in-flight", func(c *Config) { c.MaxInFlight = 0 }, ErrInvalidMaxInFlight},
		{"empty postgres host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"postgres port zero", func(c *Config) { c.PostgresPort = 0 }, ErrInvalidPostgresPort},
		{"postgres port too large", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"empty postgres db name", func(c *Config) { c.PostgresDBName = "" }, ErrInvalidPostgresDBName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidSSLMode(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresSSLMode = "prefer"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for deprecated ssl mode")
	}
}
