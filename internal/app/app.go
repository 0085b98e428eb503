// Package app wires the application together: configuration, store, clients,
// dispatcher, and transport are constructed once at startup and injected
// explicitly. There are no process-wide singletons; tests substitute any
// collaborator through the dispatcher's interfaces.
package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegem/internal/bot"
	"telegem/internal/config"
	"telegem/internal/telegram"
)

// App is the application container. Setup builds it; Close releases it.
type App struct {
	Config     *config.Config
	Pool       *pgxpool.Pool
	Dispatcher *bot.Dispatcher
	Telegram   *telegram.Bot

	logger *slog.Logger
}

// Run serves events until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot started",
		"model", a.Config.ModelName,
		"history_limit", a.Config.HistoryLimit)
	return a.Telegram.Run(ctx, a.Dispatcher)
}

// Close releases all resources.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
		a.logger.Info("database pool closed")
	}
}
