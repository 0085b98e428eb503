package prompt

import (
	"fmt"
	"testing"

	"telegem/internal/gemini"
	"telegem/internal/storage"
)

// recentTurns builds k turns as the store would return them: newest first.
func recentTurns(k int) []storage.Turn {
	turns := make([]storage.Turn, 0, k)
	for i := k; i >= 1; i-- {
		turns = append(turns, storage.Turn{
			ID:          int64(i),
			ChatID:      1,
			UserMessage: fmt.Sprintf("question %d", i),
			BotReply:    fmt.Sprintf("answer %d", i),
		})
	}
	return turns
}

func TestAssemble_EmptyHistory(t *testing.T) {
	got := Assemble(nil, "hello")

	if len(got) != 1 {
		t.Fatalf("Assemble(nil) = %d turns, want 1", len(got))
	}
	if got[0].Role != gemini.RoleUser {
		t.Errorf("role = %q, want user", got[0].Role)
	}
	if got[0].Parts[0].Text != "hello" {
		t.Errorf("text = %q, want hello", got[0].Parts[0].Text)
	}
}

func TestAssemble_TurnCount(t *testing.T) {
	for _, k := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("%d turns", k), func(t *testing.T) {
			got := Assemble(recentTurns(k), "new message")

			if want := 2*k + 1; len(got) != want {
				t.Fatalf("Assemble(%d turns) = %d contents, want %d", k, len(got), want)
			}
			last := got[len(got)-1]
			if last.Role != gemini.RoleUser || last.Parts[0].Text != "new message" {
				t.Errorf("final turn = %+v, want the new user message", last)
			}
		})
	}
}

func TestAssemble_ChronologicalOrderAndRoles(t *testing.T) {
	got := Assemble(recentTurns(3), "latest")

	want := []struct {
		role string
		text string
	}{
		{gemini.RoleUser, "question 1"},
		{gemini.RoleModel, "answer 1"},
		{gemini.RoleUser, "question 2"},
		{gemini.RoleModel, "answer 2"},
		{gemini.RoleUser, "question 3"},
		{gemini.RoleModel, "answer 3"},
		{gemini.RoleUser, "latest"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Role != w.role {
			t.Errorf("turn %d role = %q, want %q", i, got[i].Role, w.role)
		}
		if got[i].Parts[0].Text != w.text {
			t.Errorf("turn %d text = %q, want %q", i, got[i].Parts[0].Text, w.text)
		}
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	recent := recentTurns(2)
	first := recent[0]

	Assemble(recent, "x")

	if recent[0] != first {
		t.Error("Assemble mutated its input slice")
	}
}
