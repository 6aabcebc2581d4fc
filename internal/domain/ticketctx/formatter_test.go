package ticketctx_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticketctx"
)

func TestFormat_FullContext(t *testing.T) {
	data := &ticketctx.Data{
		Ticket: &ticket.Ticket{
			ID:           4521,
			Summary:      "VPN drops every hour",
			Status:       ticket.NamedRef{Name: "Open"},
			Priority:     ticket.NamedRef{Name: "High"},
			TicketType:   ticket.NamedRef{Name: "Incident"},
			DateOccurred: "2026-08-20T10:00:00Z",
			Details:      "User reports hourly VPN disconnects.",
		},
		Actions: []ticket.Action{
			{DateOccurred: "2026-08-21", Outcome: "Call", Who: "Agent Kim", Note: "Called user"},
		},
		User:   &ticket.User{Name: "Dana", EmailAddress: "dana@acme.test", IsVIP: true},
		Client: &ticket.ClientOrg{Name: "Acme", SLA: ticket.NamedRef{Name: "Gold"}},
		Assets: []ticket.Asset{{Name: "laptop-07", Hostname: "lt07"}},
		Errors: []string{"Failed to fetch asset 99: gone"},
	}

	got := ticketctx.Format(data)

	wantFragments := []string{
		"ADDITIONAL CONTEXT FROM HALO (Pre-fetched)",
		"### TICKET DETAILS",
		"- ID: 4521",
		"- Summary: VPN drops every hour",
		"- Status: Open",
		"- Priority: High",
		"- Type: Incident",
		"### TICKET HISTORY",
		"**[2026-08-21] Call** by Agent Kim",
		"### USER INFORMATION",
		"- Email: dana@acme.test",
		"- VIP: Yes",
		"### CLIENT/COMPANY INFORMATION",
		"- SLA: Gold",
		"### LINKED ASSETS",
		"**Asset 1: laptop-07**",
		"  - Hostname: lt07",
		"### FETCH WARNINGS",
		"  - Failed to fetch asset 99: gone",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
	if !strings.HasPrefix(got, strings.Repeat("=", 60)) {
		t.Error("output does not start with banner")
	}
	if !strings.HasSuffix(got, strings.Repeat("=", 60)) {
		t.Error("output does not end with banner")
	}
}

func TestFormat_OmitsAbsentSections(t *testing.T) {
	data := &ticketctx.Data{
		Ticket: &ticket.Ticket{ID: 1, Summary: "standalone"},
	}

	got := ticketctx.Format(data)

	for _, header := range []string{
		"### TICKET HISTORY",
		"### USER INFORMATION",
		"### CLIENT/COMPANY INFORMATION",
		"### LINKED ASSETS",
		"### FETCH WARNINGS",
	} {
		if strings.Contains(got, header) {
			t.Errorf("output contains %q for absent data", header)
		}
	}
	if !strings.Contains(got, "### TICKET DETAILS") {
		t.Error("ticket section missing")
	}
}

func TestFormat_TicketDefaults(t *testing.T) {
	got := ticketctx.Format(&ticketctx.Data{Ticket: &ticket.Ticket{ID: 2}})

	for _, fragment := range []string{
		"- Summary: No summary",
		"- Status: Unknown",
		"- Priority: Unknown",
		"- Type: Unknown",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
	if strings.Contains(got, "- Created:") || strings.Contains(got, "- Details:") {
		t.Error("empty optional fields rendered")
	}
}

func TestFormat_HistoryNewestFirstAndCapped(t *testing.T) {
	var actions []ticket.Action
	for i := 1; i <= 25; i++ {
		actions = append(actions, ticket.Action{
			DateOccurred: fmt.Sprintf("2026-08-%02d", i),
			Note:         fmt.Sprintf("note %d", i),
		})
	}
	data := &ticketctx.Data{
		Ticket:  &ticket.Ticket{ID: 1},
		Actions: actions,
	}

	got := ticketctx.Format(data)

	if !strings.Contains(got, "(Showing 20 most recent of 25 actions)") {
		t.Error("cap notice missing")
	}
	if !strings.Contains(got, "note 25") {
		t.Error("newest action missing")
	}
	if strings.Contains(got, "note 5\n") || strings.Contains(got, "note 1\n") {
		t.Error("oldest actions not dropped")
	}
	if strings.Index(got, "2026-08-25") > strings.Index(got, "2026-08-24") {
		t.Error("actions not newest first")
	}
}

func TestFormat_StripsHTMLAndTruncates(t *testing.T) {
	longNote := "<p>Reset the <b>VPN</b> profile</p>" + strings.Repeat("x", 600)
	data := &ticketctx.Data{
		Ticket: &ticket.Ticket{ID: 1},
		Actions: []ticket.Action{
			{DateOccurred: "2026-08-21", Note: longNote},
		},
	}

	got := ticketctx.Format(data)

	if strings.Contains(got, "<p>") || strings.Contains(got, "<b>") {
		t.Error("HTML tags not stripped")
	}
	if !strings.Contains(got, "Reset the VPN profile") {
		t.Error("note text mangled")
	}
	if !strings.Contains(got, "... [truncated]") {
		t.Error("long note not truncated")
	}
}

func TestFormat_LongDetailsTruncated(t *testing.T) {
	data := &ticketctx.Data{
		Ticket: &ticket.Ticket{ID: 1, Details: strings.Repeat("d", 1200)},
	}

	got := ticketctx.Format(data)

	if !strings.Contains(got, "... [truncated]") {
		t.Error("long details not truncated")
	}
	if strings.Contains(got, strings.Repeat("d", 1001)) {
		t.Error("details longer than limit")
	}
}
