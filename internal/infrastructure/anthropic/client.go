package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/domain/retry"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

const (
	apiVersion   = "2023-06-01"
	messagesPath = "/v1/messages"
)

// Client calls the Anthropic Messages API.
type Client struct {
	httpClient *resty.Client
	policy     retry.Policy
	log        zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("x-api-key", apiKey).
			SetHeader("anthropic-version", apiVersion).
			SetTimeout(timeout),
		policy: retry.ProviderPolicy(),
		log:    log,
	}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateMessage submits a non-streaming message request. Overloaded (429) and
// 5xx responses are retried once; other failures are returned immediately.
func (c *Client) CreateMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	var lastErr error
	maxAttempts := c.policy.MaxAttempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var result llm.MessageResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&result).
			Post(messagesPath)

		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500:
			lastErr = fmt.Errorf("anthropic api returned %d: %s", resp.StatusCode(), upstreamMessage(resp.Body()))
		case resp.IsError():
			metrics.RecordProviderError(fmt.Sprintf("http_%d", resp.StatusCode()))
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeProvider,
				fmt.Sprintf("anthropic api returned %d: %s", resp.StatusCode(), upstreamMessage(resp.Body())), nil)
		default:
			c.log.Debug().
				Str("model", result.Model).
				Str("stop_reason", string(result.StopReason)).
				Int("input_tokens", result.Usage.InputTokens).
				Int("output_tokens", result.Usage.OutputTokens).
				Msg("anthropic message completed")
			return &result, nil
		}

		if attempt == maxAttempts {
			break
		}

		c.log.Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying anthropic request")

		if err := c.policy.Wait(ctx, attempt); err != nil {
			metrics.RecordProviderError("cancelled")
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeProvider,
				"anthropic request cancelled", err)
		}
	}

	metrics.RecordProviderError("retries_exhausted")
	return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeProvider,
		fmt.Sprintf("anthropic request failed after %d attempts", maxAttempts), lastErr)
}

// upstreamMessage extracts the error message from an Anthropic error body
// without leaking the whole payload into our errors.
func upstreamMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return "unrecognized error payload"
}

var _ llm.Provider = (*Client)(nil)
