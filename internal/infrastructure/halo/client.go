package halo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/retry"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// Client implements ticket.API against the Halo PSA REST surface.
type Client struct {
	httpClient *resty.Client
	auth       *AuthManager
	policy     retry.Policy
	log        zerolog.Logger
}

// NewClient creates a resty-backed Halo client. baseURL is the Halo instance
// URL; the REST surface lives under its /api prefix.
func NewClient(baseURL, clientID, clientSecret string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL + "/api").
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
		auth:   NewAuthManager(baseURL, clientID, clientSecret, timeout, log),
		policy: retry.HaloPolicy(),
		log:    log,
	}
}

// GetTicket fetches ticket details by id.
func (c *Client) GetTicket(ctx context.Context, ticketID int) (*ticket.Ticket, error) {
	var result ticket.Ticket
	if err := c.get(ctx, fmt.Sprintf("/tickets/%d", ticketID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTicketActions fetches the full action history of a ticket.
func (c *Client) GetTicketActions(ctx context.Context, ticketID int) ([]ticket.Action, error) {
	var result ticket.Ticket
	params := map[string]string{"includedetails": "true"}
	if err := c.get(ctx, fmt.Sprintf("/tickets/%d", ticketID), params, &result); err != nil {
		return nil, err
	}
	return result.Actions, nil
}

// SearchTickets searches tickets by keyword with optional client/user filters.
func (c *Client) SearchTickets(ctx context.Context, search ticket.TicketSearch) ([]ticket.Ticket, error) {
	params := map[string]string{
		"search": search.Query,
		"count":  strconv.Itoa(search.Count),
	}
	if search.ClientID != 0 {
		params["client_id"] = strconv.Itoa(search.ClientID)
	}
	if search.UserID != 0 {
		params["user_id"] = strconv.Itoa(search.UserID)
	}

	var result ticketList
	if err := c.get(ctx, "/tickets", params, &result); err != nil {
		return nil, err
	}
	return result.Tickets, nil
}

// GetUser fetches user details by id.
func (c *Client) GetUser(ctx context.Context, userID int) (*ticket.User, error) {
	var result ticket.User
	if err := c.get(ctx, fmt.Sprintf("/users/%d", userID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserTickets lists tickets reported by a user.
func (c *Client) GetUserTickets(ctx context.Context, userID, count int, openOnly bool) ([]ticket.Ticket, error) {
	params := map[string]string{
		"user_id": strconv.Itoa(userID),
		"count":   strconv.Itoa(count),
	}
	if openOnly {
		params["open_only"] = "true"
	}

	var result ticketList
	if err := c.get(ctx, "/tickets", params, &result); err != nil {
		return nil, err
	}
	return result.Tickets, nil
}

// GetClient fetches client/company details by id.
func (c *Client) GetClient(ctx context.Context, clientID int) (*ticket.ClientOrg, error) {
	var result ticket.ClientOrg
	if err := c.get(ctx, fmt.Sprintf("/client/%d", clientID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetClientTickets lists recent tickets for a client/company.
func (c *Client) GetClientTickets(ctx context.Context, clientID, count int, openOnly bool) ([]ticket.Ticket, error) {
	params := map[string]string{
		"client_id": strconv.Itoa(clientID),
		"count":     strconv.Itoa(count),
	}
	if openOnly {
		params["open_only"] = "true"
	}

	var result ticketList
	if err := c.get(ctx, "/tickets", params, &result); err != nil {
		return nil, err
	}
	return result.Tickets, nil
}

// GetAsset fetches asset details by id.
func (c *Client) GetAsset(ctx context.Context, assetID int) (*ticket.Asset, error) {
	var result ticket.Asset
	if err := c.get(ctx, fmt.Sprintf("/asset/%d", assetID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchKB searches the knowledge base. Halo returns either an object with an
// articles field or a bare array depending on version, so both are accepted.
func (c *Client) SearchKB(ctx context.Context, query string, count int) ([]ticket.KBArticle, error) {
	params := map[string]string{
		"search": query,
		"count":  strconv.Itoa(count),
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/KBArticle", params, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Articles []ticket.KBArticle `json:"articles"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Articles != nil {
		return wrapped.Articles, nil
	}

	var articles []ticket.KBArticle
	if err := json.Unmarshal(raw, &articles); err == nil {
		return articles, nil
	}
	return nil, nil
}

// GetKBArticle fetches a knowledge base article by id.
func (c *Client) GetKBArticle(ctx context.Context, articleID int) (*ticket.KBArticle, error) {
	var result ticket.KBArticle
	if err := c.get(ctx, fmt.Sprintf("/KBArticle/%d", articleID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ensure interface compliance.
var _ ticket.API = (*Client)(nil)

type ticketList struct {
	Tickets []ticket.Ticket `json:"tickets"`
}

// get issues an authenticated GET with bounded retries. Transient failures
// (network errors, 429, 5xx) are retried with exponential backoff; other 4xx
// are not. A 401 invalidates the cached token once before failing as an auth
// error.
func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	var lastErr error
	retriedAuth := false
	maxAttempts := c.policy.MaxAttempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		token, err := c.auth.Token(ctx)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+token).
			SetQueryParams(params).
			SetResult(out).
			Get(path)

		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode() == http.StatusUnauthorized:
			if retriedAuth {
				return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamAuth,
					fmt.Sprintf("halo rejected credentials for %s", path), nil)
			}
			retriedAuth = true
			c.auth.Invalidate()
			continue
		case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500:
			lastErr = fmt.Errorf("halo api returned %d for %s", resp.StatusCode(), path)
		case resp.IsError():
			return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamCall,
				fmt.Sprintf("halo api returned %d for %s", resp.StatusCode(), path), nil)
		default:
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		c.log.Warn().
			Err(lastErr).
			Str("path", path).
			Int("attempt", attempt).
			Msg("retrying halo request")

		if err := c.policy.Wait(ctx, attempt); err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamCall,
				fmt.Sprintf("halo request for %s cancelled", path), err)
		}
	}

	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamCall,
		fmt.Sprintf("halo request for %s failed after %d attempts", path, maxAttempts), lastErr)
}
