// Package bot contains the event dispatcher: the state-free router that maps
// each inbound event to one of five flows and guarantees exactly one outbound
// reply per event.
//
// No downstream error escapes a flow. Each collaborator's failure class is
// caught where it surfaces and converted into either a fallback reply or a
// degraded continuation; the diagnostic detail goes to the log. Nothing is
// retried.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"telegem/internal/gemini"
	"telegem/internal/prompt"
	"telegem/internal/search"
	"telegem/internal/storage"
)

// UserStore is the identity store consumed by the registration and
// contact-save flows.
type UserStore interface {
	FindUser(ctx context.Context, chatID int64) (*storage.User, error)
	CreateUser(ctx context.Context, u storage.User) error
	SetPhoneNumber(ctx context.Context, chatID int64, phone string) error
}

// HistoryStore is the conversation log consumed by the chat flow.
// RecentTurns returns newest-first; the assembler reverses.
type HistoryStore interface {
	RecentTurns(ctx context.Context, chatID int64, limit int) ([]storage.Turn, error)
	AppendTurn(ctx context.Context, t storage.Turn) error
}

// FileStore is the analysis log consumed by the file flow.
type FileStore interface {
	AppendFileRecord(ctx context.Context, r storage.FileRecord) error
}

// Generator produces model replies for assembled prompts.
type Generator interface {
	Generate(ctx context.Context, contents []gemini.Content) (string, error)
	GenerateText(ctx context.Context, text string) (string, error)
}

// Searcher runs web-search queries.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Downloader stages an attachment locally and reports where the transport
// stored the original.
type Downloader interface {
	Download(ctx context.Context, att Attachment) (localPath, sourceURL string, err error)
}

// ExtractFunc turns a staged file into raw text.
type ExtractFunc func(path string) (string, error)

// Config contains the dispatcher's collaborators.
type Config struct {
	Users    UserStore
	History  HistoryStore
	Files    FileStore
	Generate Generator
	Search   Searcher
	Download Downloader
	Extract  ExtractFunc

	// HistoryLimit bounds the context window; 0 uses the default.
	HistoryLimit int

	Logger *slog.Logger
}

func (cfg Config) validate() error {
	if cfg.Users == nil {
		return errors.New("user store is required")
	}
	if cfg.History == nil {
		return errors.New("history store is required")
	}
	if cfg.Files == nil {
		return errors.New("file store is required")
	}
	if cfg.Generate == nil {
		return errors.New("generator is required")
	}
	if cfg.Search == nil {
		return errors.New("searcher is required")
	}
	if cfg.Download == nil {
		return errors.New("downloader is required")
	}
	if cfg.Extract == nil {
		return errors.New("extract func is required")
	}
	return nil
}

// Dispatcher routes inbound events. It holds no per-conversation state
// beyond what the stores hold, so a single Dispatcher serves every chat and
// is safe for concurrent use.
type Dispatcher struct {
	users        UserStore
	history      HistoryStore
	files        FileStore
	generate     Generator
	search       Searcher
	download     Downloader
	extract      ExtractFunc
	historyLimit int
	logger       *slog.Logger
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid dispatcher config: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = prompt.DefaultHistoryLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Dispatcher{
		users:        cfg.Users,
		history:      cfg.History,
		files:        cfg.Files,
		generate:     cfg.Generate,
		search:       cfg.Search,
		download:     cfg.Download,
		extract:      cfg.Extract,
		historyLimit: cfg.HistoryLimit,
		logger:       cfg.Logger,
	}, nil
}

// HandleEvent routes one inbound event and always returns exactly one reply.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) Reply {
	switch ev.Kind {
	case KindCommand:
		switch ev.Command {
		case CommandStart:
			return d.handleStart(ctx, ev)
		case CommandWebSearch:
			return d.handleSearch(ctx, ev)
		default:
			return Reply{Text: msgUnknown}
		}
	case KindContact:
		return d.handleContact(ctx, ev)
	case KindText:
		return d.handleChat(ctx, ev)
	case KindAttachment:
		return d.handleFile(ctx, ev)
	default:
		d.logger.Warn("event with unknown kind", "kind", ev.Kind, "chat_id", ev.ChatID)
		return Reply{Text: msgUnknown}
	}
}

// handleStart is the registration flow. First contact from an unseen chat id
// creates the identity record and asks for contact info; a known id gets a
// welcome-back instead. Creation is idempotent.
func (d *Dispatcher) handleStart(ctx context.Context, ev Event) Reply {
	_, err := d.users.FindUser(ctx, ev.ChatID)
	switch {
	case err == nil:
		return Reply{Text: msgWelcomeBack}
	case errors.Is(err, storage.ErrNotFound):
		// fall through to create
	default:
		d.logger.Error("looking up user failed", "chat_id", ev.ChatID, "error", err)
		return Reply{Text: msgInternalError}
	}

	if err := d.users.CreateUser(ctx, storage.User{
		ChatID:    ev.ChatID,
		FirstName: ev.FirstName,
		Username:  ev.Username,
	}); err != nil {
		d.logger.Error("creating user failed", "chat_id", ev.ChatID, "error", err)
		return Reply{Text: msgInternalError}
	}
	return Reply{Text: msgShareContact, RequestContact: true}
}

// handleContact saves the shared phone number, overwriting any previous one,
// and always acknowledges. A contact from a chat with no identity record is
// acknowledged without writing anything: the thank-you is part of the flow's
// contract, not a receipt for the write.
func (d *Dispatcher) handleContact(ctx context.Context, ev Event) Reply {
	err := d.users.SetPhoneNumber(ctx, ev.ChatID, ev.PhoneNumber)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		d.logger.Warn("contact from unregistered chat, nothing saved", "chat_id", ev.ChatID)
	default:
		d.logger.Error("saving contact failed", "chat_id", ev.ChatID, "error", err)
		return Reply{Text: msgInternalError}
	}
	return Reply{Text: msgContactSaved}
}

// handleChat is the chat flow: assemble context, generate, persist, reply.
//
// A history read failure degrades to an empty context window rather than
// blocking the conversation. A generation failure yields the fixed fallback
// reply and is NOT persisted, so future prompts never quote the fallback back
// to the model as if it were a real answer.
func (d *Dispatcher) handleChat(ctx context.Context, ev Event) Reply {
	recent, err := d.history.RecentTurns(ctx, ev.ChatID, d.historyLimit)
	if err != nil {
		d.logger.Error("loading history failed, continuing without context",
			"chat_id", ev.ChatID, "error", err)
		recent = nil
	}

	contents := prompt.Assemble(recent, ev.Text)

	reply, err := d.generate.Generate(ctx, contents)
	if err != nil {
		d.logger.Error("generation failed", "chat_id", ev.ChatID, "error", err)
		return Reply{Text: msgGenerationFallback}
	}

	if err := d.history.AppendTurn(ctx, storage.Turn{
		ChatID:      ev.ChatID,
		UserMessage: ev.Text,
		BotReply:    reply,
	}); err != nil {
		// The reply still goes out; the turn is lost from context.
		d.logger.Error("persisting turn failed", "chat_id", ev.ChatID, "error", err)
	}
	return Reply{Text: reply}
}

// handleFile is the file-analysis flow: stage, extract, analyze, record.
// Extraction failure halts before any generation call or persistence.
func (d *Dispatcher) handleFile(ctx context.Context, ev Event) Reply {
	if ev.Attachment == nil {
		d.logger.Warn("attachment event without attachment", "chat_id", ev.ChatID)
		return Reply{Text: msgInternalError}
	}

	localPath, sourceURL, err := d.download.Download(ctx, *ev.Attachment)
	if err != nil {
		d.logger.Error("downloading attachment failed",
			"chat_id", ev.ChatID, "file", ev.Attachment.FileName, "error", err)
		return Reply{Text: msgInternalError}
	}
	// The staged file is consumed by extraction either way.
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			d.logger.Warn("removing staged file failed", "path", localPath, "error", err)
		}
	}()

	text, err := d.extract(localPath)
	if err != nil {
		d.logger.Error("extracting text failed",
			"chat_id", ev.ChatID, "file", ev.Attachment.FileName, "error", err)
		return Reply{Text: msgExtractFailed}
	}

	analysis, err := d.generate.GenerateText(ctx, analyzePromptPrefix+text)
	if err != nil {
		d.logger.Error("file analysis generation failed",
			"chat_id", ev.ChatID, "file", ev.Attachment.FileName, "error", err)
		analysis = msgNoAnalysis
	}

	if err := d.files.AppendFileRecord(ctx, storage.FileRecord{
		FileName: ev.Attachment.FileName,
		Analysis: analysis,
		FileURL:  sourceURL,
	}); err != nil {
		d.logger.Error("persisting file record failed",
			"file", ev.Attachment.FileName, "error", err)
	}

	return Reply{Text: fmt.Sprintf("File received: %s\nAnalysis: %s", ev.Attachment.FileName, analysis)}
}

// handleSearch is the search flow. An empty argument list is a user-input
// error reported before any network call.
func (d *Dispatcher) handleSearch(ctx context.Context, ev Event) Reply {
	if len(ev.Args) == 0 {
		return Reply{Text: msgEmptyQuery}
	}

	query := strings.Join(ev.Args, " ")
	formatted, err := d.search.Search(ctx, query)
	switch {
	case errors.Is(err, search.ErrNoResults):
		return Reply{Text: msgNoResults}
	case err != nil:
		d.logger.Error("search failed", "chat_id", ev.ChatID, "query", query, "error", err)
		return Reply{Text: msgSearchFailed}
	default:
		return Reply{Text: formatted}
	}
}
