package storage

import (
	"time"

	"github.com/google/uuid"
)

// User is the per-conversation identity record. One row per Telegram chat,
// created on the first event from an unseen chat id and never deleted.
type User struct {
	ChatID      int64
	FirstName   string
	Username    string
	PhoneNumber string // empty until the contact flow saves one
	CreatedAt   time.Time
}

// Turn is one completed (user message, bot reply) pair. Turns are immutable
// and append-only; ID is the creation order within the log.
type Turn struct {
	ID          int64
	ChatID      int64
	UserMessage string
	BotReply    string
	CreatedAt   time.Time
}

// FileRecord is one successfully analyzed attachment. The log is append-only
// and intentionally not linked back to a conversation.
type FileRecord struct {
	ID        uuid.UUID
	FileName  string
	Analysis  string
	FileURL   string
	CreatedAt time.Time
}
