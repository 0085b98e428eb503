// Package prompt assembles the bounded, ordered context window sent to the
// generation endpoint.
package prompt

import (
	"telegem/internal/gemini"
	"telegem/internal/storage"
)

// DefaultHistoryLimit is the number of stored turns a context window holds
// when the caller does not choose its own bound.
const DefaultHistoryLimit = 10

// Assemble builds the ordered prompt for a chat-flow round trip.
//
// recent holds up to N most-recent turns as the store returns them, newest
// first; Assemble reverses them to chronological order rather than trusting
// the store's native order. Each stored pair becomes a user turn followed by
// a model turn; the new inbound message is appended as the final, unanswered
// user turn. With no prior history the result is exactly that single turn.
//
// Assemble is a pure transformation: it never mutates recent and performs no
// I/O.
func Assemble(recent []storage.Turn, userMessage string) []gemini.Content {
	contents := make([]gemini.Content, 0, 2*len(recent)+1)

	// Walk backwards: oldest first.
	for i := len(recent) - 1; i >= 0; i-- {
		contents = append(contents,
			gemini.NewUserContent(recent[i].UserMessage),
			gemini.NewModelContent(recent[i].BotReply),
		)
	}
	return append(contents, gemini.NewUserContent(userMessage))
}
