// Package config provides application configuration with multi-source priority.
//
// Sources, highest to lowest:
//  1. Environment variables (secrets are only read from here)
//  2. Config file (./config.yaml or ~/.telegem/config.yaml)
//  3. Default values
//
// A .env file in the working directory is loaded into the environment first,
// mirroring the deployment convention of the hosted bot.
//
// All four secrets (Telegram bot token, Gemini API key, store connection,
// search engine id) are validated at startup. A missing secret fails the
// process before any event is served; individual requests never discover a
// missing secret on their own.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation, checked with errors.Is().
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingBotToken indicates TELEGRAM_BOT_TOKEN is not set.
	ErrMissingBotToken = errors.New("missing bot token")

	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrMissingSearchEngineID indicates GOOGLE_CSE_ID is not set.
	ErrMissingSearchEngineID = errors.New("missing search engine id")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidHistoryLimit indicates the history window size is out of range.
	ErrInvalidHistoryLimit = errors.New("invalid history limit")

	// ErrInvalidHTTPTimeout indicates the outbound HTTP timeout is out of range.
	ErrInvalidHTTPTimeout = errors.New("invalid http timeout")

	// ErrInvalidMaxInFlight indicates the in-flight event cap is out of range.
	ErrInvalidMaxInFlight = errors.New("invalid max in-flight events")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

const (
	// DefaultModelName is the Gemini model used when none is configured.
	DefaultModelName = "gemini-pro"

	// DefaultHistoryLimit is the number of most-recent turns loaded into the
	// prompt context window.
	DefaultHistoryLimit = 10

	// MaxHistoryLimit caps the context window to keep prompts bounded.
	MaxHistoryLimit = 100
)

// Config stores application configuration.
// SECURITY: secret fields are never logged; keep them out of String/Marshal output.
type Config struct {
	// Secrets, environment-only.
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	GoogleCSEID      string `mapstructure:"google_cse_id"`

	// Generation configuration.
	ModelName    string `mapstructure:"model_name"`
	HistoryLimit int    `mapstructure:"history_limit"`

	// Outbound HTTP and dispatch limits.
	HTTPTimeoutSeconds int   `mapstructure:"http_timeout_seconds"`
	MaxInFlight        int64 `mapstructure:"max_in_flight"`

	// Attachment staging directory.
	DownloadDir string `mapstructure:"download_dir"`

	// Storage configuration (see storage.go).
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Logging.
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > config file > defaults.
func Load() (*Config, error) {
	// Best effort: a missing .env file is the normal case in production.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".telegem"))
	}

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults plus env carry the day.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings when present.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("history_limit", DefaultHistoryLimit)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("max_in_flight", 32)
	v.SetDefault("download_dir", "downloads")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "telegem")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db_name", "telegem")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds the secret environment variables explicitly.
// Secrets never come from the config file.
func bindEnvVariables(v *viper.Viper) {
	bindings := map[string]string{
		"telegram_bot_token": "TELEGRAM_BOT_TOKEN",
		"gemini_api_key":     "GEMINI_API_KEY",
		"google_cse_id":      "GOOGLE_CSE_ID",
		"postgres_password":  "POSTGRES_PASSWORD",
		"log_level":          "LOG_LEVEL",
	}
	for key, envVar := range bindings {
		// BindEnv only errors on an empty key, which cannot happen here.
		_ = v.BindEnv(key, envVar)
	}
}
