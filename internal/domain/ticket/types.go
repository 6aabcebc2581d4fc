package ticket

import (
	"context"
	"encoding/json"
)

// NamedRef is a reference Halo renders inconsistently: sometimes a full
// {id, name} object, sometimes a bare name string, sometimes a bare id.
type NamedRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON tolerates the three shapes Halo is known to emit.
func (r *NamedRef) UnmarshalJSON(data []byte) error {
	type plain NamedRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*r = NamedRef(obj)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		return nil
	}

	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	return nil
}

// Ticket is the Halo ticket entity.
type Ticket struct {
	ID            int        `json:"id"`
	Summary       string     `json:"summary,omitempty"`
	Details       string     `json:"details,omitempty"`
	Status        NamedRef   `json:"status,omitempty"`
	Priority      NamedRef   `json:"priority,omitempty"`
	TicketType    NamedRef   `json:"tickettype,omitempty"`
	DateOccurred  string     `json:"dateoccurred,omitempty"`
	DateLastEvent string     `json:"datelastevent,omitempty"`
	UserID        int        `json:"user_id,omitempty"`
	ClientID      int        `json:"client_id,omitempty"`
	AssetID       int        `json:"asset_id,omitempty"`
	Assets        []NamedRef `json:"assets,omitempty"`
	Actions       []Action   `json:"actions,omitempty"`
}

// AssetIDs collects the distinct asset ids linked to the ticket, preserving order.
func (t *Ticket) AssetIDs() []int {
	var ids []int
	seen := make(map[int]bool)
	add := func(id int) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(t.AssetID)
	for _, ref := range t.Assets {
		add(ref.ID)
	}
	return ids
}

// Action is one note or event on a ticket's history.
type Action struct {
	ID           int    `json:"id,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	Who          string `json:"who,omitempty"`
	Note         string `json:"note,omitempty"`
	DateOccurred string `json:"dateoccurred,omitempty"`
}

// User is the Halo end user entity.
type User struct {
	ID           int      `json:"id"`
	Name         string   `json:"name,omitempty"`
	EmailAddress string   `json:"emailaddress,omitempty"`
	PhoneNumber  string   `json:"phonenumber,omitempty"`
	JobTitle     string   `json:"jobtitle,omitempty"`
	IsVIP        bool     `json:"isvip,omitempty"`
	Site         NamedRef `json:"site,omitempty"`
}

// ClientOrg is the Halo client/company entity.
type ClientOrg struct {
	ID          int      `json:"id"`
	Name        string   `json:"name,omitempty"`
	Website     string   `json:"website,omitempty"`
	PhoneNumber string   `json:"phonenumber,omitempty"`
	SLA         NamedRef `json:"sla,omitempty"`
	MainContact string   `json:"main_contact,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Asset is the Halo asset/device entity.
type Asset struct {
	ID              int      `json:"id"`
	Name            string   `json:"name,omitempty"`
	InventoryNumber string   `json:"inventory_number,omitempty"`
	AssetType       NamedRef `json:"assettype,omitempty"`
	SerialNumber    string   `json:"serialnumber,omitempty"`
	Manufacturer    string   `json:"manufacturer,omitempty"`
	Model           string   `json:"model,omitempty"`
	Status          NamedRef `json:"status,omitempty"`
	Hostname        string   `json:"hostname,omitempty"`
	IPAddress       string   `json:"ipaddress,omitempty"`
}

// KBArticle is a knowledge base article.
type KBArticle struct {
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	Details string `json:"details,omitempty"`
}

// TicketSearch carries the optional filters of a ticket search.
type TicketSearch struct {
	Query    string
	Count    int
	ClientID int
	UserID   int
}

// API abstracts the Halo PSA REST surface consumed by the context fetcher and
// the tool dispatcher.
type API interface {
	GetTicket(ctx context.Context, ticketID int) (*Ticket, error)
	GetTicketActions(ctx context.Context, ticketID int) ([]Action, error)
	SearchTickets(ctx context.Context, search TicketSearch) ([]Ticket, error)
	GetUser(ctx context.Context, userID int) (*User, error)
	GetUserTickets(ctx context.Context, userID, count int, openOnly bool) ([]Ticket, error)
	GetClient(ctx context.Context, clientID int) (*ClientOrg, error)
	GetClientTickets(ctx context.Context, clientID, count int, openOnly bool) ([]Ticket, error)
	GetAsset(ctx context.Context, assetID int) (*Asset, error)
	SearchKB(ctx context.Context, query string, count int) ([]KBArticle, error)
	GetKBArticle(ctx context.Context, articleID int) (*KBArticle, error)
}
