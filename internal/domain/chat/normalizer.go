package chat

import (
	openai "github.com/sashabaranov/go-openai"
)

// The Messages API rejects two shapes Halo is known to produce: empty-content
// messages, and conversations ending on an assistant turn (which Claude
// treats as a prefill continuation and answers with no text).
const (
	// EmptyContentReplacement substitutes empty message content.
	EmptyContentReplacement = "Please provide your response based on the instructions above."

	// AssistantEndingAppend is appended as a user message when the
	// conversation ends on an assistant turn.
	AssistantEndingAppend = "Now provide your response based on the instructions and conversation above."
)

// Normalize returns a copy of messages satisfying the provider's structural
// requirements. It is idempotent and never mutates its input.
func Normalize(messages []openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	if len(messages) == 0 {
		return messages
	}

	fixed := append([]openai.ChatCompletionMessage(nil), messages...)

	for i, msg := range fixed {
		if msg.Content != "" || len(msg.MultiContent) != 0 {
			continue
		}
		// An assistant turn that only carries tool calls legitimately has
		// no content.
		if msg.Role == openai.ChatMessageRoleAssistant && (len(msg.ToolCalls) > 0 || msg.FunctionCall != nil) {
			continue
		}
		fixed[i].Content = EmptyContentReplacement
	}

	if fixed[len(fixed)-1].Role == openai.ChatMessageRoleAssistant {
		fixed = append(fixed, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: AssistantEndingAppend,
		})
	}

	return fixed
}
