// Package telegram adapts the Telegram Bot API to the dispatcher's event
// model. It long-polls for updates, normalizes each into a bot.Event, runs
// the dispatcher in a per-event goroutine, and sends the single reply back.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"

	"telegem/internal/bot"
)

// Config contains the parameters for the adapter.
type Config struct {
	Token       string
	DownloadDir string        // staging directory for attachments
	MaxInFlight int64         // cap on concurrently handled events, 0 means 32
	HTTPTimeout time.Duration // bound on attachment downloads, 0 means 30s
	Logger      *slog.Logger
}

// Bot is the transport adapter. It owns the Telegram API client and the
// staging directory; the dispatcher stays transport-agnostic behind it.
type Bot struct {
	api         *tgbotapi.BotAPI
	sem         *semaphore.Weighted
	maxInFlight int64
	downloadDir string
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates the adapter and authenticates against the Bot API.
func New(cfg Config) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("bot token is required")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "downloads"
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 32
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}
	cfg.Logger.Info("authorized on Telegram", "account", api.Self.UserName)

	return &Bot{
		api:         api,
		sem:         semaphore.NewWeighted(cfg.MaxInFlight),
		maxInFlight: cfg.MaxInFlight,
		downloadDir: cfg.DownloadDir,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		logger:      cfg.Logger,
	}, nil
}

// Run long-polls for updates until ctx is canceled. Each event is handled by
// its own goroutine so one conversation's slow round trip never serializes
// unrelated conversations; the semaphore bounds how many run at once.
func (b *Bot) Run(ctx context.Context, d *bot.Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			// Drain in-flight handlers before returning.
			if err := b.sem.Acquire(context.Background(), b.maxInFlight); err == nil {
				b.sem.Release(b.maxInFlight)
			}
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := eventFromUpdate(upd)
			if !ok {
				continue
			}
			if err := b.sem.Acquire(ctx, 1); err != nil {
				continue // ctx canceled, loop exits on the next select
			}
			go func() {
				defer b.sem.Release(1)
				b.handle(ctx, d, ev)
			}()
		}
	}
}

// handle runs one event through the dispatcher and sends the reply.
func (b *Bot) handle(ctx context.Context, d *bot.Dispatcher, ev bot.Event) {
	reply := d.HandleEvent(ctx, ev)

	msg := tgbotapi.NewMessage(ev.ChatID, reply.Text)
	if reply.RequestContact {
		msg.ReplyMarkup = contactKeyboard()
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("sending reply failed", "chat_id", ev.ChatID, "error", err)
	}
}

// contactKeyboard is the one-time reply keyboard asking to share contact info.
func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("Share Contact"),
		),
	)
}
