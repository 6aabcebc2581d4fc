package ticketctx

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// Data is the bundle of Halo entities fetched around one ticket. Errors holds
// human-readable warnings for the pieces that could not be fetched.
type Data struct {
	Ticket  *ticket.Ticket
	Actions []ticket.Action
	User    *ticket.User
	Client  *ticket.ClientOrg
	Assets  []ticket.Asset
	Errors  []string
}

// Fetcher loads a ticket and its linked entities from the ticketing API.
type Fetcher struct {
	api     ticket.API
	timeout time.Duration
	log     zerolog.Logger
}

func NewFetcher(api ticket.API, timeout time.Duration, log zerolog.Logger) *Fetcher {
	return &Fetcher{api: api, timeout: timeout, log: log}
}

// Fetch loads the ticket, its history, and the linked user, client and assets.
// The ticket itself is the anchor: if it cannot be fetched the whole fetch
// fails. Everything else degrades into a warning in Data.Errors.
func (f *Fetcher) Fetch(ctx context.Context, ticketID int) (*Data, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	data := &Data{}

	var (
		tk         *ticket.Ticket
		ticketErr  error
		actions    []ticket.Action
		actionsErr error
	)

	var anchor errgroup.Group
	anchor.Go(func() error {
		tk, ticketErr = f.api.GetTicket(ctx, ticketID)
		return nil
	})
	anchor.Go(func() error {
		actions, actionsErr = f.api.GetTicketActions(ctx, ticketID)
		return nil
	})
	anchor.Wait()

	if ticketErr != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstreamCall,
			fmt.Sprintf("fetching ticket %d", ticketID), ticketErr)
	}
	data.Ticket = tk

	if actionsErr != nil {
		f.log.Warn().Err(actionsErr).Int("ticket_id", ticketID).Msg("failed to fetch ticket history")
		data.Errors = append(data.Errors, fmt.Sprintf("Failed to fetch ticket history: %v", actionsErr))
	} else {
		data.Actions = actions
	}

	f.fetchLinked(ctx, data)
	return data, nil
}

// fetchLinked loads the user, client and assets referenced by the ticket in
// parallel. Individual failures become warnings, never errors.
func (f *Fetcher) fetchLinked(ctx context.Context, data *Data) {
	assetIDs := data.Ticket.AssetIDs()

	var (
		user      *ticket.User
		userErr   error
		client    *ticket.ClientOrg
		clientErr error
		assets    = make([]*ticket.Asset, len(assetIDs))
		assetErrs = make([]error, len(assetIDs))
	)

	var g errgroup.Group
	if data.Ticket.UserID != 0 {
		g.Go(func() error {
			user, userErr = f.api.GetUser(ctx, data.Ticket.UserID)
			return nil
		})
	}
	if data.Ticket.ClientID != 0 {
		g.Go(func() error {
			client, clientErr = f.api.GetClient(ctx, data.Ticket.ClientID)
			return nil
		})
	}
	for i, assetID := range assetIDs {
		i, assetID := i, assetID
		g.Go(func() error {
			assets[i], assetErrs[i] = f.api.GetAsset(ctx, assetID)
			return nil
		})
	}
	g.Wait()

	if userErr != nil {
		f.warn(data, fmt.Sprintf("Failed to fetch user %d: %v", data.Ticket.UserID, userErr))
	} else if user != nil {
		data.User = user
	}

	if clientErr != nil {
		f.warn(data, fmt.Sprintf("Failed to fetch client %d: %v", data.Ticket.ClientID, clientErr))
	} else if client != nil {
		data.Client = client
	}

	for i, assetID := range assetIDs {
		if assetErrs[i] != nil {
			f.warn(data, fmt.Sprintf("Failed to fetch asset %d: %v", assetID, assetErrs[i]))
		} else if assets[i] != nil {
			data.Assets = append(data.Assets, *assets[i])
		}
	}
}

func (f *Fetcher) warn(data *Data, msg string) {
	f.log.Warn().Msg(msg)
	data.Errors = append(data.Errors, msg)
}
