package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/observability"
)

const (
	defaultTicketCount = 10
	defaultKBCount     = 5
)

// Dispatcher executes tool calls against the ticketing API.
type Dispatcher struct {
	api ticket.API
	log zerolog.Logger
}

func NewDispatcher(api ticket.API, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{api: api, log: log}
}

// Dispatch runs a single tool_use block and returns the matching tool_result
// block. Failures never abort the conversation: unknown tools, bad arguments
// and API errors all come back as error results the model can react to.
func (d *Dispatcher) Dispatch(ctx context.Context, call llm.ContentBlock) llm.ContentBlock {
	ctx, span := observability.StartSpan(ctx, "tool.dispatch",
		trace.WithAttributes(attribute.String("tool", call.Name)))
	defer span.End()

	d.log.Info().
		Str("tool", call.Name).
		RawJSON("input", nonEmptyJSON(call.Input)).
		Msg("executing tool")

	result, err := d.execute(ctx, call.Name, call.Input)
	if err != nil {
		observability.RecordError(ctx, err)
		d.log.Warn().Err(err).Str("tool", call.Name).Msg("tool execution failed")
		metrics.RecordToolCall(call.Name, true)
		return errorResult(call.ID, err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		metrics.RecordToolCall(call.Name, true)
		return errorResult(call.ID, fmt.Errorf("encoding %s result: %w", call.Name, err))
	}
	metrics.RecordToolCall(call.Name, false)
	return llm.NewToolResultBlock(call.ID, string(payload), false)
}

func (d *Dispatcher) execute(ctx context.Context, name string, input json.RawMessage) (any, error) {
	switch name {
	case "get_ticket":
		var args struct {
			TicketID int `json:"ticket_id"`
		}
		if err := decodeArgs(input, &args, "ticket_id"); err != nil {
			return nil, err
		}
		return d.api.GetTicket(ctx, args.TicketID)

	case "get_user":
		var args struct {
			UserID int `json:"user_id"`
		}
		if err := decodeArgs(input, &args, "user_id"); err != nil {
			return nil, err
		}
		return d.api.GetUser(ctx, args.UserID)

	case "get_user_tickets":
		args := listArgs{Count: defaultTicketCount}
		if err := decodeArgs(input, &args, "user_id"); err != nil {
			return nil, err
		}
		return d.api.GetUserTickets(ctx, args.UserID, args.Count, args.OpenOnly)

	case "get_client":
		var args struct {
			ClientID int `json:"client_id"`
		}
		if err := decodeArgs(input, &args, "client_id"); err != nil {
			return nil, err
		}
		return d.api.GetClient(ctx, args.ClientID)

	case "get_client_tickets":
		args := listArgs{Count: defaultTicketCount}
		if err := decodeArgs(input, &args, "client_id"); err != nil {
			return nil, err
		}
		return d.api.GetClientTickets(ctx, args.ClientID, args.Count, args.OpenOnly)

	case "get_asset":
		var args struct {
			AssetID int `json:"asset_id"`
		}
		if err := decodeArgs(input, &args, "asset_id"); err != nil {
			return nil, err
		}
		return d.api.GetAsset(ctx, args.AssetID)

	case "search_tickets":
		args := searchArgs{Count: defaultTicketCount}
		if err := decodeArgs(input, &args, "query"); err != nil {
			return nil, err
		}
		return d.api.SearchTickets(ctx, ticket.TicketSearch{
			Query:    args.Query,
			Count:    args.Count,
			ClientID: args.ClientID,
			UserID:   args.UserID,
		})

	case "search_kb":
		args := searchArgs{Count: defaultKBCount}
		if err := decodeArgs(input, &args, "query"); err != nil {
			return nil, err
		}
		return d.api.SearchKB(ctx, args.Query, args.Count)

	case "get_kb_article":
		var args struct {
			ArticleID int `json:"article_id"`
		}
		if err := decodeArgs(input, &args, "article_id"); err != nil {
			return nil, err
		}
		return d.api.GetKBArticle(ctx, args.ArticleID)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type listArgs struct {
	UserID   int  `json:"user_id"`
	ClientID int  `json:"client_id"`
	Count    int  `json:"count"`
	OpenOnly bool `json:"open_only"`
}

type searchArgs struct {
	Query    string `json:"query"`
	Count    int    `json:"count"`
	ClientID int    `json:"client_id"`
	UserID   int    `json:"user_id"`
}

// decodeArgs unmarshals tool input and rejects calls missing their required
// field, so the model gets a usable error instead of a zero-id API lookup.
func decodeArgs(input json.RawMessage, target any, required string) error {
	if len(input) > 0 {
		if err := json.Unmarshal(input, target); err != nil {
			return fmt.Errorf("invalid tool input: %v", err)
		}
	}
	if !fieldSet(target, required) {
		return fmt.Errorf("missing required field: %s", required)
	}
	return nil
}

// fieldSet reports whether the named json field decoded to a non-zero value.
func fieldSet(target any, name string) bool {
	raw, err := json.Marshal(target)
	if err != nil {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	value, ok := fields[name]
	if !ok {
		return false
	}
	s := string(value)
	return s != "0" && s != `""` && s != "null" && s != "false"
}

func errorResult(toolUseID string, err error) llm.ContentBlock {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = []byte(`{"error":"tool execution failed"}`)
	}
	return llm.NewToolResultBlock(toolUseID, string(payload), true)
}

func nonEmptyJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
