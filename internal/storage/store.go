// Package storage persists users, conversation history, and file analysis
// records in PostgreSQL.
//
// All three logs are append-only from the bot's point of view: users are
// created once and only ever gain a phone number, history turns and file
// records are inserted and never touched again. Per-conversation ordering
// relies on the monotonic id each single-statement INSERT receives, so no
// in-process locking is needed.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides access to the bot's PostgreSQL tables.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     querier
	logger *slog.Logger
}

// New creates a Store over the given connection pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: pool, logger: logger}, nil
}

// FindUser looks up the identity record for a chat id.
// Returns ErrNotFound when the chat has never been seen.
func (s *Store) FindUser(ctx context.Context, chatID int64) (*User, error) {
	const q = `SELECT chat_id, first_name, username, COALESCE(phone_number, ''), created_at
		FROM users WHERE chat_id = $1`

	var u User
	err := s.db.QueryRow(ctx, q, chatID).Scan(
		&u.ChatID, &u.FirstName, &u.Username, &u.PhoneNumber, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", chatID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding user %d: %w", chatID, err)
	}
	return &u, nil
}

// CreateUser inserts the identity record for a new chat.
// Idempotent: re-running with the same chat id never creates a duplicate.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	const q = `INSERT INTO users (chat_id, first_name, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO NOTHING`

	if _, err := s.db.Exec(ctx, q, u.ChatID, u.FirstName, u.Username); err != nil {
		return fmt.Errorf("creating user %d: %w", u.ChatID, err)
	}
	s.logger.Debug("created user", "chat_id", u.ChatID)
	return nil
}

// SetPhoneNumber saves the shared contact's phone number for a chat.
// An existing number is overwritten; it is never cleared.
func (s *Store) SetPhoneNumber(ctx context.Context, chatID int64, phone string) error {
	const q = `UPDATE users SET phone_number = $2 WHERE chat_id = $1`

	tag, err := s.db.Exec(ctx, q, chatID, phone)
	if err != nil {
		return fmt.Errorf("saving phone number for user %d: %w", chatID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", chatID, ErrNotFound)
	}
	s.logger.Debug("saved phone number", "chat_id", chatID)
	return nil
}

// RecentTurns returns up to limit most-recent turns for a chat in
// reverse-chronological order (newest first). Callers wanting chronological
// order must reverse; see the prompt package.
func (s *Store) RecentTurns(ctx context.Context, chatID int64, limit int) ([]Turn, error) {
	const q = `SELECT id, chat_id, user_message, bot_reply, created_at
		FROM chat_history
		WHERE chat_id = $1
		ORDER BY id DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading history for chat %d: %w", chatID, err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.ChatID, &t.UserMessage, &t.BotReply, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history for chat %d: %w", chatID, err)
	}

	s.logger.Debug("loaded history", "chat_id", chatID, "count", len(turns), "limit", limit)
	return turns, nil
}

// AppendTurn appends one completed turn to the conversation log.
func (s *Store) AppendTurn(ctx context.Context, t Turn) error {
	const q = `INSERT INTO chat_history (chat_id, user_message, bot_reply)
		VALUES ($1, $2, $3)`

	if _, err := s.db.Exec(ctx, q, t.ChatID, t.UserMessage, t.BotReply); err != nil {
		return fmt.Errorf("appending turn for chat %d: %w", t.ChatID, err)
	}
	s.logger.Debug("appended turn", "chat_id", t.ChatID)
	return nil
}

// AppendFileRecord appends one file analysis record.
func (s *Store) AppendFileRecord(ctx context.Context, r FileRecord) error {
	const q = `INSERT INTO files (file_name, analysis, file_url)
		VALUES ($1, $2, $3)`

	if _, err := s.db.Exec(ctx, q, r.FileName, r.Analysis, r.FileURL); err != nil {
		return fmt.Errorf("appending file record %q: %w", r.FileName, err)
	}
	s.logger.Debug("appended file record", "file_name", r.FileName)
	return nil
}
