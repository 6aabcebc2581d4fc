package chat_test

import (
	"reflect"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Wldc4rd/HaloClaude/internal/domain/chat"
)

func TestNormalize_EmptyInput(t *testing.T) {
	if got := chat.Normalize(nil); len(got) != 0 {
		t.Fatalf("Normalize(nil) = %v, want empty", got)
	}
}

func TestNormalize_ValidMessagesUnchanged(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Hello"},
		{Role: openai.ChatMessageRoleAssistant, Content: "Hi there!"},
		{Role: openai.ChatMessageRoleUser, Content: "How are you?"},
	}

	got := chat.Normalize(messages)
	if !reflect.DeepEqual(got, messages) {
		t.Errorf("Normalize() = %v, want unchanged", got)
	}
}

func TestNormalize_EmptyContentReplaced(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are helpful"},
		{Role: openai.ChatMessageRoleUser, Content: ""},
	}

	got := chat.Normalize(messages)
	if got[1].Content != chat.EmptyContentReplacement {
		t.Errorf("content = %q, want placeholder", got[1].Content)
	}
	if got[0].Content != "You are helpful" {
		t.Errorf("non-empty content modified: %q", got[0].Content)
	}
}

func TestNormalize_AssistantToolCallsNotTouched(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "look it up"},
		{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{
				{ID: "call_1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "get_ticket", Arguments: `{"ticket_id":1}`}},
			},
		},
	}

	got := chat.Normalize(messages)
	if got[1].Content != "" {
		t.Errorf("assistant tool-call content = %q, want empty", got[1].Content)
	}
	// Still ends on assistant, so a user turn must be appended.
	if got[len(got)-1].Role != openai.ChatMessageRoleUser {
		t.Errorf("last role = %q, want user", got[len(got)-1].Role)
	}
}

func TestNormalize_AssistantEnding(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Hello"},
		{Role: openai.ChatMessageRoleAssistant, Content: "Hi there!"},
	}

	got := chat.Normalize(messages)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	last := got[len(got)-1]
	if last.Role != openai.ChatMessageRoleUser || last.Content != chat.AssistantEndingAppend {
		t.Errorf("appended message = %+v", last)
	}
}

func TestNormalize_UserEndingUnchanged(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleAssistant, Content: "Hi there!"},
		{Role: openai.ChatMessageRoleUser, Content: "Hello"},
	}

	got := chat.Normalize(messages)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "Instructions"},
		{Role: openai.ChatMessageRoleUser, Content: ""},
		{Role: openai.ChatMessageRoleAssistant, Content: "Response"},
	}

	once := chat.Normalize(messages)
	twice := chat.Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestNormalize_InputNotMutated(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: ""},
		{Role: openai.ChatMessageRoleAssistant, Content: "Response"},
	}

	got := chat.Normalize(messages)

	if messages[0].Content != "" {
		t.Errorf("input mutated: %q", messages[0].Content)
	}
	if len(messages) != 2 {
		t.Errorf("input length changed: %d", len(messages))
	}
	if len(got) != 3 || got[0].Content != chat.EmptyContentReplacement {
		t.Errorf("result = %v", got)
	}
}

func TestNormalize_EmptyAssistantReplaced(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Hello"},
		{Role: openai.ChatMessageRoleAssistant, Content: ""},
		{Role: openai.ChatMessageRoleUser, Content: "Still there?"},
	}

	got := chat.Normalize(messages)
	if got[1].Content != chat.EmptyContentReplacement {
		t.Errorf("assistant content = %q, want placeholder", got[1].Content)
	}
}
