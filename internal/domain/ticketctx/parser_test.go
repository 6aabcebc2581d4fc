package ticketctx_test

import (
	"testing"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticketctx"
)

func TestParseTicketID(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   int
		found  bool
	}{
		{"hash form", "You are helping with Ticket #4521 for Acme.", 4521, true},
		{"hash with space", "Ticket # 4521", 4521, true},
		{"bare number form", "Please review Ticket 123 carefully.", 123, true},
		{"underscore id", "ticket_id: 987", 987, true},
		{"spaced id", "The ticket id: 987 needs attention", 987, true},
		{"bracket form", "[Ticket: 42]", 42, true},
		{"url form", "See https://halo.example.com/tickets/777 for details", 777, true},
		{"bare hash", "Customer replied on #12345 today", 12345, true},
		{"bare hash too short", "Item #123 is unrelated", 0, false},
		{"bare hash preceded by digit", "Order 9#12345678 ref", 0, false},
		{"case insensitive", "TICKET #99", 99, true},
		{"no reference", "You are a helpful support assistant for 51 clients.", 0, false},
		{"empty prompt", "", 0, false},
		{"first pattern wins", "Ticket #100 relates to /tickets/200", 100, true},
		{"hash at start", "#4521 escalated", 4521, true},
		{"hash at end", "escalated to #4521", 4521, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ticketctx.ParseTicketID(tt.prompt)
			if found != tt.found || got != tt.want {
				t.Errorf("ParseTicketID(%q) = (%d, %v), want (%d, %v)", tt.prompt, got, found, tt.want, tt.found)
			}
		})
	}
}
