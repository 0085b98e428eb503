package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegem/db"
	"telegem/internal/bot"
	"telegem/internal/config"
	"telegem/internal/extract"
	"telegem/internal/gemini"
	"telegem/internal/search"
	"telegem/internal/storage"
	"telegem/internal/telegram"
)

// Setup creates and initializes the application. Any failure here is fatal:
// the process must not start serving events with a missing secret or an
// unreachable store.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, logger: logger}

	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	pool, err := providePool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	store, err := storage.New(pool, logger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	generator, err := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.ModelName,
		Timeout: timeout,
		Logger:  logger.With("component", "gemini"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating generation client: %w", err)
	}

	// The hosted deployment uses the CSE id for both parameters.
	searcher, err := search.New(search.Config{
		APIKey:   cfg.GoogleCSEID,
		EngineID: cfg.GoogleCSEID,
		Timeout:  timeout,
		Logger:   logger.With("component", "search"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}

	tg, err := telegram.New(telegram.Config{
		Token:       cfg.TelegramBotToken,
		DownloadDir: cfg.DownloadDir,
		MaxInFlight: cfg.MaxInFlight,
		HTTPTimeout: timeout,
		Logger:      logger.With("component", "telegram"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram adapter: %w", err)
	}
	a.Telegram = tg

	dispatcher, err := bot.New(bot.Config{
		Users:        store,
		History:      store,
		Files:        store,
		Generate:     generator,
		Search:       searcher,
		Download:     tg,
		Extract:      extract.Text,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger.With("component", "dispatcher"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	a.Dispatcher = dispatcher

	return a, nil
}

// providePool connects to PostgreSQL, verifies the connection, and applies
// pending migrations.
func providePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return pool, nil
}
