package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/observability"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// FallbackMessage is returned when the loop hits its iteration cap or
// deadline without the provider producing a final textual answer.
const FallbackMessage = "I was unable to complete the request within the allotted number of steps."

// ToolRunner executes a single tool_use block and returns its tool_result.
type ToolRunner interface {
	Dispatch(ctx context.Context, call llm.ContentBlock) llm.ContentBlock
}

// Loop drives the tool-execution conversation with the model provider. Each
// turn submits the conversation, executes any requested tools, and resubmits
// with the results, until the provider answers with text or a bound is hit.
type Loop struct {
	provider  llm.Provider
	tools     ToolRunner
	maxRounds int
	timeout   time.Duration
	log       zerolog.Logger
}

func NewLoop(provider llm.Provider, tools ToolRunner, maxRounds int, timeout time.Duration, log zerolog.Logger) *Loop {
	return &Loop{
		provider:  provider,
		tools:     tools,
		maxRounds: maxRounds,
		timeout:   timeout,
		log:       log,
	}
}

// Run executes the loop for one request. The returned response carries token
// usage accumulated across every provider turn, not just the last one.
func (l *Loop) Run(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ctx, span := observability.StartSpan(ctx, "agent.loop")
	defer span.End()

	var total llm.Usage
	var lastResp *llm.MessageResponse

	for round := 1; round <= l.maxRounds; round++ {
		resp, err := l.provider.CreateMessage(ctx, req)
		if err != nil {
			metrics.RecordAgentRounds(round)
			// The deadline counts as exhaustion, never as a failure: the
			// caller gets the last text if any turn produced some, or the
			// fallback sentence.
			if ctx.Err() != nil {
				l.log.Warn().
					Int("rounds", round-1).
					Str("error_type", string(platformerrors.ErrorTypeLoopExhausted)).
					Msg("loop deadline reached, degrading response")
				return l.degraded(lastResp, total), nil
			}
			observability.RecordError(ctx, err)
			return nil, err
		}

		total.InputTokens += resp.Usage.InputTokens
		total.OutputTokens += resp.Usage.OutputTokens
		lastResp = resp

		if resp.StopReason != llm.StopReasonToolUse {
			resp.Usage = total
			metrics.RecordAgentRounds(round)
			return resp, nil
		}

		toolUses := resp.ToolUses()
		l.log.Debug().Int("round", round).Int("tool_calls", len(toolUses)).Msg("dispatching tools")

		results := make([]llm.ContentBlock, 0, len(toolUses))
		for _, call := range toolUses {
			results = append(results, l.tools.Dispatch(ctx, call))
		}

		req.Messages = append(req.Messages,
			llm.Message{Role: llm.RoleAssistant, Content: resp.Content},
			llm.Message{Role: llm.RoleUser, Content: results},
		)
	}

	l.log.Warn().
		Int("max_rounds", l.maxRounds).
		Str("error_type", string(platformerrors.ErrorTypeLoopExhausted)).
		Msg("loop iteration cap reached without final answer")
	metrics.RecordAgentRounds(l.maxRounds)
	return l.degraded(lastResp, total), nil
}

// degraded builds the terminal response after exhaustion: the last textual
// content if any turn produced some, otherwise the fallback message.
func (l *Loop) degraded(lastResp *llm.MessageResponse, total llm.Usage) *llm.MessageResponse {
	text := ""
	if lastResp != nil {
		text = lastResp.TextContent()
	}
	if text == "" {
		text = FallbackMessage
	}

	resp := &llm.MessageResponse{
		Role:       llm.RoleAssistant,
		Content:    []llm.ContentBlock{llm.NewTextBlock(text)},
		StopReason: llm.StopReasonEndTurn,
		Usage:      total,
	}
	if lastResp != nil {
		resp.ID = lastResp.ID
		resp.Model = lastResp.Model
	}
	return resp
}
