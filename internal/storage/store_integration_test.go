//go:build integration
// +build integration

package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegem/internal/log"
	"telegem/internal/testutil"
)

func TestStore_UserLifecycle_Integration(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store, err := New(tdb.Pool, log.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	// Unknown chat id.
	_, err = store.FindUser(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	// First registration.
	require.NoError(t, store.CreateUser(ctx, User{ChatID: 42, FirstName: "Alice", Username: "alice"}))

	u, err := store.FindUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ChatID)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "alice", u.Username)
	assert.Empty(t, u.PhoneNumber)
	assert.NotZero(t, u.CreatedAt)

	// Re-registering is idempotent and does not overwrite.
	require.NoError(t, store.CreateUser(ctx, User{ChatID: 42, FirstName: "Mallory", Username: "mallory"}))

	u, err = store.FindUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName, "duplicate registration must not overwrite")

	var count int
	require.NoError(t, tdb.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE chat_id = 42").Scan(&count))
	assert.Equal(t, 1, count, "exactly one identity record per chat id")
}

func TestStore_SetPhoneNumber_Integration(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store, err := New(tdb.Pool, log.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, User{ChatID: 7, FirstName: "Bob"}))

	require.NoError(t, store.SetPhoneNumber(ctx, 7, "+15550100"))
	u, err := store.FindUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "+15550100", u.PhoneNumber)

	// Sharing again overwrites, never clears.
	require.NoError(t, store.SetPhoneNumber(ctx, 7, "+15550199"))
	u, err = store.FindUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "+15550199", u.PhoneNumber)

	// Unknown chat id.
	err = store.SetPhoneNumber(ctx, 999, "+15550100")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_History_RoundTrip_Integration(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store, err := New(tdb.Pool, log.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	const chatID = int64(100)
	const k = 7
	for i := 1; i <= k; i++ {
		require.NoError(t, store.AppendTurn(ctx, Turn{
			ChatID:      chatID,
			UserMessage: fmt.Sprintf("question %d", i),
			BotReply:    fmt.Sprintf("answer %d", i),
		}))
	}
	// Turns for another chat must never leak into the window.
	require.NoError(t, store.AppendTurn(ctx, Turn{ChatID: 200, UserMessage: "other", BotReply: "chat"}))

	// limit >= k yields all k turns, newest first.
	turns, err := store.RecentTurns(ctx, chatID, 50)
	require.NoError(t, err)
	require.Len(t, turns, k)
	for i, turn := range turns {
		assert.Equal(t, chatID, turn.ChatID)
		assert.Equal(t, fmt.Sprintf("question %d", k-i), turn.UserMessage, "store order is reverse-chronological")
	}

	// Bounded window keeps only the most recent turns.
	turns, err = store.RecentTurns(ctx, chatID, 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "question 7", turns[0].UserMessage)
	assert.Equal(t, "question 5", turns[2].UserMessage)

	// Empty history.
	turns, err = store.RecentTurns(ctx, 999, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestStore_AppendFileRecord_Integration(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store, err := New(tdb.Pool, log.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.AppendFileRecord(ctx, FileRecord{
		FileName: "report.pdf",
		Analysis: "A quarterly report.",
		FileURL:  "documents/file_1.pdf",
	}))

	var name, analysis, url string
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		"SELECT file_name, analysis, file_url FROM files").Scan(&name, &analysis, &url))
	assert.Equal(t, "report.pdf", name)
	assert.Equal(t, "A quarterly report.", analysis)
	assert.Equal(t, "documents/file_1.pdf", url)
}
