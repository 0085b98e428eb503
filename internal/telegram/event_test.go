package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegem/internal/bot"
)

// command builds a message whose entities mark text as a bot command,
// which is how the Bot API flags "/start"-style messages.
func command(text string) *tgbotapi.Message {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i > 0 {
		cmdLen = i
	}
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 1},
		From: &tgbotapi.User{FirstName: "Alice", UserName: "alice"},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}
}

func TestEventFromUpdate_StartCommand(t *testing.T) {
	ev, ok := eventFromUpdate(tgbotapi.Update{Message: command("/start")})
	if !ok {
		t.Fatal("update should produce an event")
	}
	if ev.Kind != bot.KindCommand || ev.Command != "start" {
		t.Errorf("event = %+v, want start command", ev)
	}
	if ev.ChatID != 1 || ev.FirstName != "Alice" || ev.Username != "alice" {
		t.Errorf("sender fields = %+v", ev)
	}
	if len(ev.Args) != 0 {
		t.Errorf("args = %v, want none", ev.Args)
	}
}

func TestEventFromUpdate_WebSearchWithArgs(t *testing.T) {
	ev, ok := eventFromUpdate(tgbotapi.Update{Message: command("/websearch golang   generics")})
	if !ok {
		t.Fatal("update should produce an event")
	}
	if ev.Command != "websearch" {
		t.Errorf("command = %q", ev.Command)
	}
	if len(ev.Args) != 2 || ev.Args[0] != "golang" || ev.Args[1] != "generics" {
		t.Errorf("args = %v, want [golang generics]", ev.Args)
	}
}

func TestEventFromUpdate_PlainText(t *testing.T) {
	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 7},
		Text: "hello there",
	}}
	ev, ok := eventFromUpdate(upd)
	if !ok {
		t.Fatal("update should produce an event")
	}
	if ev.Kind != bot.KindText || ev.Text != "hello there" {
		t.Errorf("event = %+v, want plain text", ev)
	}
}

func TestEventFromUpdate_Contact(t *testing.T) {
	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:    &tgbotapi.Chat{ID: 7},
		Contact: &tgbotapi.Contact{PhoneNumber: "+15550100"},
	}}
	ev, ok := eventFromUpdate(upd)
	if !ok {
		t.Fatal("update should produce an event")
	}
	if ev.Kind != bot.KindContact || ev.PhoneNumber != "+15550100" {
		t.Errorf("event = %+v, want contact", ev)
	}
}

func TestEventFromUpdate_Document(t *testing.T) {
	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 7},
		Document: &tgbotapi.Document{FileID: "f123", FileName: "report.pdf"},
	}}
	ev, ok := eventFromUpdate(upd)
	if !ok {
		t.Fatal("update should produce an event")
	}
	if ev.Kind != bot.KindAttachment {
		t.Fatalf("kind = %v, want attachment", ev.Kind)
	}
	if ev.Attachment.FileID != "f123" || ev.Attachment.FileName != "report.pdf" {
		t.Errorf("attachment = %+v", ev.Attachment)
	}
}

func TestEventFromUpdate_Dropped(t *testing.T) {
	tests := []struct {
		name string
		upd  tgbotapi.Update
	}{
		{"no message", tgbotapi.Update{}},
		{"no chat", tgbotapi.Update{Message: &tgbotapi.Message{Text: "x"}}},
		{"empty message", tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := eventFromUpdate(tt.upd); ok {
				t.Error("update should be dropped")
			}
		})
	}
}

func TestContactKeyboard(t *testing.T) {
	kb := contactKeyboard()
	if !kb.OneTimeKeyboard {
		t.Error("contact keyboard should be one-time")
	}
	if len(kb.Keyboard) != 1 || len(kb.Keyboard[0]) != 1 {
		t.Fatalf("keyboard layout = %+v, want single button", kb.Keyboard)
	}
	if !kb.Keyboard[0][0].RequestContact {
		t.Error("button must request contact sharing")
	}
}
