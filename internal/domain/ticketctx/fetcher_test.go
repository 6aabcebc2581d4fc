package ticketctx_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticketctx"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

type fetchAPI struct {
	ticket.API

	getTicket  func(ctx context.Context, id int) (*ticket.Ticket, error)
	getActions func(ctx context.Context, id int) ([]ticket.Action, error)
	getUser    func(ctx context.Context, id int) (*ticket.User, error)
	getClient  func(ctx context.Context, id int) (*ticket.ClientOrg, error)
	getAsset   func(ctx context.Context, id int) (*ticket.Asset, error)
}

func (f *fetchAPI) GetTicket(ctx context.Context, id int) (*ticket.Ticket, error) {
	return f.getTicket(ctx, id)
}

func (f *fetchAPI) GetTicketActions(ctx context.Context, id int) ([]ticket.Action, error) {
	return f.getActions(ctx, id)
}

func (f *fetchAPI) GetUser(ctx context.Context, id int) (*ticket.User, error) {
	return f.getUser(ctx, id)
}

func (f *fetchAPI) GetClient(ctx context.Context, id int) (*ticket.ClientOrg, error) {
	return f.getClient(ctx, id)
}

func (f *fetchAPI) GetAsset(ctx context.Context, id int) (*ticket.Asset, error) {
	return f.getAsset(ctx, id)
}

func fullAPI() *fetchAPI {
	return &fetchAPI{
		getTicket: func(_ context.Context, id int) (*ticket.Ticket, error) {
			return &ticket.Ticket{
				ID:      id,
				Summary: "VPN drops",
				UserID:  7,
				ClientID: 3,
				Assets:  []ticket.NamedRef{{ID: 21}, {ID: 22}},
			}, nil
		},
		getActions: func(context.Context, int) ([]ticket.Action, error) {
			return []ticket.Action{{ID: 1, Note: "called user"}}, nil
		},
		getUser: func(_ context.Context, id int) (*ticket.User, error) {
			return &ticket.User{ID: id, Name: "Dana"}, nil
		},
		getClient: func(_ context.Context, id int) (*ticket.ClientOrg, error) {
			return &ticket.ClientOrg{ID: id, Name: "Acme"}, nil
		},
		getAsset: func(_ context.Context, id int) (*ticket.Asset, error) {
			return &ticket.Asset{ID: id, Name: "laptop"}, nil
		},
	}
}

func newFetcher(api ticket.API) *ticketctx.Fetcher {
	return ticketctx.NewFetcher(api, 5*time.Second, zerolog.Nop())
}

func TestFetcher_FullContext(t *testing.T) {
	data, err := newFetcher(fullAPI()).Fetch(context.Background(), 4521)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if data.Ticket == nil || data.Ticket.ID != 4521 {
		t.Fatalf("ticket = %+v", data.Ticket)
	}
	if len(data.Actions) != 1 {
		t.Errorf("actions = %+v", data.Actions)
	}
	if data.User == nil || data.User.Name != "Dana" {
		t.Errorf("user = %+v", data.User)
	}
	if data.Client == nil || data.Client.Name != "Acme" {
		t.Errorf("client = %+v", data.Client)
	}
	if len(data.Assets) != 2 {
		t.Errorf("got %d assets, want 2", len(data.Assets))
	}
	if len(data.Errors) != 0 {
		t.Errorf("unexpected warnings: %v", data.Errors)
	}
}

func TestFetcher_TicketFailureIsFatal(t *testing.T) {
	api := fullAPI()
	api.getTicket = func(context.Context, int) (*ticket.Ticket, error) {
		return nil, errors.New("halo down")
	}

	_, err := newFetcher(api).Fetch(context.Background(), 4521)
	if err == nil {
		t.Fatal("Fetch() error = nil, want error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUpstreamCall) {
		t.Errorf("error type = %v, want UPSTREAM_CALL", err)
	}
}

func TestFetcher_ActionsFailureBecomesWarning(t *testing.T) {
	api := fullAPI()
	api.getActions = func(context.Context, int) ([]ticket.Action, error) {
		return nil, errors.New("timeout")
	}

	data, err := newFetcher(api).Fetch(context.Background(), 4521)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if data.Ticket == nil {
		t.Fatal("ticket missing")
	}
	if len(data.Actions) != 0 {
		t.Errorf("actions = %+v", data.Actions)
	}
	if len(data.Errors) != 1 || !strings.Contains(data.Errors[0], "ticket history") {
		t.Errorf("warnings = %v", data.Errors)
	}
}

func TestFetcher_LinkedFailuresBecomeWarnings(t *testing.T) {
	api := fullAPI()
	api.getUser = func(context.Context, int) (*ticket.User, error) {
		return nil, errors.New("user gone")
	}
	api.getAsset = func(_ context.Context, id int) (*ticket.Asset, error) {
		if id == 22 {
			return nil, errors.New("asset gone")
		}
		return &ticket.Asset{ID: id}, nil
	}

	data, err := newFetcher(api).Fetch(context.Background(), 4521)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if data.User != nil {
		t.Errorf("user = %+v, want nil", data.User)
	}
	if data.Client == nil {
		t.Error("client missing")
	}
	if len(data.Assets) != 1 || data.Assets[0].ID != 21 {
		t.Errorf("assets = %+v", data.Assets)
	}
	if len(data.Errors) != 2 {
		t.Errorf("warnings = %v", data.Errors)
	}
}

func TestFetcher_SkipsUnreferencedEntities(t *testing.T) {
	api := fullAPI()
	api.getTicket = func(_ context.Context, id int) (*ticket.Ticket, error) {
		return &ticket.Ticket{ID: id, Summary: "standalone"}, nil
	}
	api.getUser = func(context.Context, int) (*ticket.User, error) {
		t.Error("GetUser called for ticket without user")
		return nil, nil
	}
	api.getClient = func(context.Context, int) (*ticket.ClientOrg, error) {
		t.Error("GetClient called for ticket without client")
		return nil, nil
	}

	data, err := newFetcher(api).Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if data.User != nil || data.Client != nil || len(data.Assets) != 0 {
		t.Errorf("unexpected linked entities: %+v", data)
	}
}
