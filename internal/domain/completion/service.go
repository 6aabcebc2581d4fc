package completion

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Wldc4rd/HaloClaude/internal/domain/chat"
	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// ContextInjector enriches a system prompt with pre-fetched ticket context.
type ContextInjector interface {
	Inject(ctx context.Context, systemPrompt, conversation string) string
}

// LoopRunner drives the tool-execution exchange with the model provider.
type LoopRunner interface {
	Run(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error)
}

// Service handles one chat completion end to end: normalize the conversation,
// inject ticket context, translate to the provider protocol, run the agent
// loop, and translate the final response back.
type Service struct {
	translator *chat.Translator
	injector   ContextInjector
	loop       LoopRunner
	catalog    []llm.Tool
	log        zerolog.Logger
}

func NewService(translator *chat.Translator, injector ContextInjector, loop LoopRunner, catalog []llm.Tool, log zerolog.Logger) *Service {
	return &Service{
		translator: translator,
		injector:   injector,
		loop:       loop,
		catalog:    catalog,
		log:        log,
	}
}

// Complete processes a chat completion request against the named deployment.
func (s *Service) Complete(ctx context.Context, deployment string, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if len(req.Messages) == 0 {
		return openai.ChatCompletionResponse{}, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "messages must not be empty", nil)
	}

	model, err := s.translator.ResolveModel(ctx, deployment)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	messages := chat.Normalize(req.Messages)

	// Halo tools plus whatever the caller defined.
	tools := append([]llm.Tool{}, s.catalog...)
	tools = append(tools, s.translator.ToProviderTools(req.Tools, req.Functions)...)

	provReq := s.translator.ToProviderRequest(model, messages, tools)
	provReq.System = s.injector.Inject(ctx, provReq.System, userText(messages))

	s.log.Info().
		Str("deployment", deployment).
		Str("model", model).
		Int("messages", len(provReq.Messages)).
		Int("tools", len(tools)).
		Msg("running completion")

	resp, err := s.loop.Run(ctx, provReq)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	metrics.RecordTokens(model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return s.translator.ToClientResponse(resp, model, resp.Usage), nil
}

// userText concatenates the textual content of user messages, used as the
// fallback source for ticket references.
func userText(messages []openai.ChatCompletionMessage) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role != openai.ChatMessageRoleUser || msg.Content == "" {
			continue
		}
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n")
}
