package ticketctx

import (
	"regexp"
	"strconv"
)

// Patterns a Halo system prompt is known to carry a ticket reference in,
// ordered most specific first. The first match wins.
var ticketIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Ticket\s*#\s*(\d+)`),          // "Ticket #123", "Ticket # 123"
	regexp.MustCompile(`(?i)Ticket\s+(\d+)`),              // "Ticket 123"
	regexp.MustCompile(`(?i)ticket[_\s]?id[:\s]+(\d+)`),   // "ticket_id: 123", "ticket id: 123"
	regexp.MustCompile(`(?i)\[Ticket:\s*(\d+)\]`),         // "[Ticket: 123]"
	regexp.MustCompile(`(?i)/tickets/(\d+)`),              // URL form "/tickets/123"
	regexp.MustCompile(`(?:^|[^0-9])#([0-9]{4,})(?:[^0-9]|$)`), // bare "#12345", 4+ digits
}

// ParseTicketID extracts a ticket id from a system prompt. It reports false
// when no pattern matches.
func ParseTicketID(systemPrompt string) (int, bool) {
	if systemPrompt == "" {
		return 0, false
	}
	for _, pattern := range ticketIDPatterns {
		match := pattern.FindStringSubmatch(systemPrompt)
		if match == nil {
			continue
		}
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return id, true
	}
	return 0, false
}
