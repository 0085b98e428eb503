package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegem/internal/bot"
)

// eventFromUpdate normalizes a Telegram update into a bot.Event.
// Updates without a usable message payload (edits, callbacks, empty messages)
// are dropped; ok reports whether the event should be dispatched.
func eventFromUpdate(upd tgbotapi.Update) (bot.Event, bool) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return bot.Event{}, false
	}

	ev := bot.Event{ChatID: msg.Chat.ID}
	if msg.From != nil {
		ev.FirstName = msg.From.FirstName
		ev.Username = msg.From.UserName
	}

	switch {
	case msg.Contact != nil:
		ev.Kind = bot.KindContact
		ev.PhoneNumber = msg.Contact.PhoneNumber
	case msg.IsCommand():
		ev.Kind = bot.KindCommand
		ev.Command = msg.Command()
		ev.Args = strings.Fields(msg.CommandArguments())
	case msg.Document != nil:
		ev.Kind = bot.KindAttachment
		ev.Attachment = &bot.Attachment{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
		}
	case msg.Text != "":
		ev.Kind = bot.KindText
		ev.Text = msg.Text
	default:
		return bot.Event{}, false
	}
	return ev, true
}
