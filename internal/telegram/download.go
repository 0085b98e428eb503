package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"telegem/internal/bot"
)

// Download stages an attachment in the download directory and returns the
// local path plus Telegram's file path as the source locator. The caller owns
// the staged file and removes it once extraction has consumed it.
//
// The staged name is a fresh UUID with the original extension, so concurrent
// downloads never collide and extraction still sees the right format.
func (b *Bot) Download(ctx context.Context, att bot.Attachment) (string, string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: att.FileID})
	if err != nil {
		return "", "", fmt.Errorf("resolving file %s: %w", att.FileID, err)
	}

	if err := os.MkdirAll(b.downloadDir, 0o750); err != nil {
		return "", "", fmt.Errorf("creating download directory: %w", err)
	}
	localPath := filepath.Join(b.downloadDir,
		uuid.NewString()+strings.ToLower(filepath.Ext(att.FileName)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return "", "", fmt.Errorf("building download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("downloading file %s: %w", att.FileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("downloading file %s: status %d", att.FileID, resp.StatusCode)
	}

	out, err := os.Create(localPath) // #nosec G304 -- path is built from a UUID, not user input
	if err != nil {
		return "", "", fmt.Errorf("creating staged file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return "", "", fmt.Errorf("writing staged file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", "", fmt.Errorf("closing staged file: %w", err)
	}

	return localPath, file.FilePath, nil
}
