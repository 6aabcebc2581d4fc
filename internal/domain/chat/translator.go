package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// DefaultMaxTokens caps the provider response length.
const DefaultMaxTokens = 4096

// Translator maps between the Azure OpenAI chat-completions protocol and the
// Anthropic Messages protocol.
type Translator struct {
	deployments map[string]string
}

// NewTranslator constructs a translator with the deployment-to-model table.
func NewTranslator(deployments map[string]string) *Translator {
	return &Translator{deployments: deployments}
}

// ResolveModel maps an Azure deployment name to a provider model id. Unknown
// deployments are a configuration error; no provider call is made for them.
func (t *Translator) ResolveModel(ctx context.Context, deployment string) (string, error) {
	model, ok := t.deployments[deployment]
	if !ok {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
			fmt.Sprintf("unknown deployment %q", deployment), nil)
	}
	return model, nil
}

// ToProviderRequest converts normalized client messages into a Messages API
// request. System messages lift into the request's system field (last one
// wins); tool role messages become user messages carrying a tool_result block.
func (t *Translator) ToProviderRequest(model string, messages []openai.ChatCompletionMessage, tools []llm.Tool) llm.MessageRequest {
	req := llm.MessageRequest{
		Model:     model,
		MaxTokens: DefaultMaxTokens,
		Tools:     tools,
	}

	for _, msg := range messages {
		switch msg.Role {
		case openai.ChatMessageRoleSystem:
			req.System = textContent(msg)
		case openai.ChatMessageRoleUser:
			req.Messages = append(req.Messages, llm.Message{
				Role:    llm.RoleUser,
				Content: []llm.ContentBlock{llm.NewTextBlock(textContent(msg))},
			})
		case openai.ChatMessageRoleAssistant:
			req.Messages = append(req.Messages, llm.Message{
				Role:    llm.RoleAssistant,
				Content: assistantBlocks(msg),
			})
		case openai.ChatMessageRoleTool:
			req.Messages = append(req.Messages, llm.Message{
				Role:    llm.RoleUser,
				Content: []llm.ContentBlock{llm.NewToolResultBlock(msg.ToolCallID, textContent(msg), false)},
			})
		}
	}

	return req
}

// ToProviderTools converts client tool/function definitions into provider tool
// schemas, preserving name, description, and parameter schema field-for-field.
func (t *Translator) ToProviderTools(tools []openai.Tool, functions []openai.FunctionDefinition) []llm.Tool {
	var out []llm.Tool
	for _, tool := range tools {
		if tool.Function == nil {
			continue
		}
		out = append(out, llm.Tool{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: parameterSchema(tool.Function.Parameters),
		})
	}
	for _, fn := range functions {
		out = append(out, llm.Tool{
			Name:        fn.Name,
			Description: fn.Description,
			InputSchema: parameterSchema(fn.Parameters),
		})
	}
	return out
}

// ToClientResponse converts the final provider response into the Azure OpenAI
// chat-completion shape. Usage covers the whole agent exchange, not only the
// final turn.
func (t *Translator) ToClientResponse(resp *llm.MessageResponse, model string, usage llm.Usage) openai.ChatCompletionResponse {
	message := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: resp.TextContent(),
	}
	for _, use := range resp.ToolUses() {
		message.ToolCalls = append(message.ToolCalls, openai.ToolCall{
			ID:   use.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      use.Name,
				Arguments: string(use.Input),
			},
		})
	}

	return openai.ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-%s", uuid.NewString()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []openai.ChatCompletionChoice{
			{
				Index:        0,
				Message:      message,
				FinishReason: mapStopReason(resp.StopReason),
			},
		},
		Usage: openai.Usage{
			PromptTokens:     usage.InputTokens,
			CompletionTokens: usage.OutputTokens,
			TotalTokens:      usage.InputTokens + usage.OutputTokens,
		},
	}
}

func assistantBlocks(msg openai.ChatCompletionMessage) []llm.ContentBlock {
	var blocks []llm.ContentBlock
	if text := textContent(msg); text != "" {
		blocks = append(blocks, llm.NewTextBlock(text))
	}
	for _, call := range msg.ToolCalls {
		blocks = append(blocks, llm.NewToolUseBlock(call.ID, call.Function.Name, json.RawMessage(call.Function.Arguments)))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, llm.NewTextBlock(EmptyContentReplacement))
	}
	return blocks
}

func textContent(msg openai.ChatCompletionMessage) string {
	if msg.Content != "" {
		return msg.Content
	}
	var out string
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			out += part.Text
		}
	}
	return out
}

func parameterSchema(params any) map[string]any {
	switch v := params.(type) {
	case nil:
		return map[string]any{"type": "object"}
	case map[string]any:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return map[string]any{"type": "object"}
		}
		var schema map[string]any
		if err := json.Unmarshal(raw, &schema); err != nil {
			return map[string]any{"type": "object"}
		}
		return schema
	}
}

func mapStopReason(reason llm.StopReason) openai.FinishReason {
	switch reason {
	case llm.StopReasonEndTurn, llm.StopReasonStopSequence:
		return openai.FinishReasonStop
	case llm.StopReasonMaxTokens:
		return openai.FinishReasonLength
	case llm.StopReasonToolUse:
		return openai.FinishReasonToolCalls
	default:
		return openai.FinishReasonStop
	}
}
