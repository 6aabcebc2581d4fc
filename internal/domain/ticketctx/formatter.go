package ticketctx

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
)

const (
	maxHistoryActions = 20
	maxDetailsLen     = 1000
	maxNoteLen        = 500
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Format renders fetched context as the block appended to the system prompt.
// Absent entities are omitted entirely, so the model never sees empty headers.
func Format(data *Data) string {
	banner := strings.Repeat("=", 60)
	sections := []string{
		banner,
		"ADDITIONAL CONTEXT FROM HALO (Pre-fetched)",
		banner,
	}

	if data.Ticket != nil {
		sections = append(sections, formatTicket(data.Ticket))
	}
	if len(data.Actions) > 0 {
		sections = append(sections, formatActions(data.Actions))
	}
	if data.User != nil {
		sections = append(sections, formatUser(data.User))
	}
	if data.Client != nil {
		sections = append(sections, formatClient(data.Client))
	}
	if len(data.Assets) > 0 {
		sections = append(sections, formatAssets(data.Assets))
	}
	if len(data.Errors) > 0 {
		sections = append(sections, formatErrors(data.Errors))
	}

	sections = append(sections, banner)
	return strings.Join(sections, "\n\n")
}

func formatTicket(tk *ticket.Ticket) string {
	lines := []string{"### TICKET DETAILS"}

	lines = append(lines, fmt.Sprintf("- ID: %d", tk.ID))
	lines = append(lines, "- Summary: "+orDefault(tk.Summary, "No summary"))
	lines = append(lines, "- Status: "+orDefault(tk.Status.Name, "Unknown"))
	lines = append(lines, "- Priority: "+orDefault(tk.Priority.Name, "Unknown"))
	lines = append(lines, "- Type: "+orDefault(tk.TicketType.Name, "Unknown"))

	if tk.DateOccurred != "" {
		lines = append(lines, "- Created: "+tk.DateOccurred)
	}
	if tk.DateLastEvent != "" {
		lines = append(lines, "- Last Updated: "+tk.DateLastEvent)
	}
	if tk.Details != "" {
		lines = append(lines, "- Details: "+truncate(tk.Details, maxDetailsLen))
	}

	return strings.Join(lines, "\n")
}

func formatActions(actions []ticket.Action) string {
	lines := []string{"### TICKET HISTORY"}

	// Newest first.
	sorted := make([]ticket.Action, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateOccurred > sorted[j].DateOccurred
	})

	if len(sorted) > maxHistoryActions {
		lines = append(lines, fmt.Sprintf("(Showing %d most recent of %d actions)", maxHistoryActions, len(sorted)))
		sorted = sorted[:maxHistoryActions]
	}

	for _, action := range sorted {
		date := orDefault(action.DateOccurred, "Unknown date")
		outcome := orDefault(action.Outcome, "Note")
		who := orDefault(action.Who, "Unknown")

		lines = append(lines, fmt.Sprintf("\n**[%s] %s** by %s", date, outcome, who))
		if note := cleanNote(action.Note); note != "" {
			lines = append(lines, "  "+note)
		}
	}

	return strings.Join(lines, "\n")
}

func formatUser(user *ticket.User) string {
	lines := []string{"### USER INFORMATION"}

	lines = append(lines, "- Name: "+orDefault(user.Name, "Unknown"))
	if user.EmailAddress != "" {
		lines = append(lines, "- Email: "+user.EmailAddress)
	}
	if user.PhoneNumber != "" {
		lines = append(lines, "- Phone: "+user.PhoneNumber)
	}
	if user.JobTitle != "" {
		lines = append(lines, "- Job Title: "+user.JobTitle)
	}
	if user.IsVIP {
		lines = append(lines, "- VIP: Yes")
	}
	if user.Site.Name != "" {
		lines = append(lines, "- Site: "+user.Site.Name)
	}

	return strings.Join(lines, "\n")
}

func formatClient(client *ticket.ClientOrg) string {
	lines := []string{"### CLIENT/COMPANY INFORMATION"}

	lines = append(lines, "- Name: "+orDefault(client.Name, "Unknown"))
	if client.Website != "" {
		lines = append(lines, "- Website: "+client.Website)
	}
	if client.PhoneNumber != "" {
		lines = append(lines, "- Phone: "+client.PhoneNumber)
	}
	if client.SLA.Name != "" {
		lines = append(lines, "- SLA: "+client.SLA.Name)
	}
	if client.MainContact != "" {
		lines = append(lines, "- Main Contact: "+client.MainContact)
	}
	if client.Notes != "" {
		lines = append(lines, "- Notes: "+truncate(client.Notes, maxNoteLen))
	}

	return strings.Join(lines, "\n")
}

func formatAssets(assets []ticket.Asset) string {
	lines := []string{"### LINKED ASSETS"}

	for i, asset := range assets {
		name := asset.Name
		if name == "" {
			name = asset.InventoryNumber
		}
		if name == "" {
			name = fmt.Sprintf("Asset %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("\n**Asset %d: %s**", i+1, name))

		if asset.AssetType.Name != "" {
			lines = append(lines, "  - Type: "+asset.AssetType.Name)
		}
		if asset.SerialNumber != "" {
			lines = append(lines, "  - Serial: "+asset.SerialNumber)
		}
		if asset.Manufacturer != "" {
			lines = append(lines, "  - Manufacturer: "+asset.Manufacturer)
		}
		if asset.Model != "" {
			lines = append(lines, "  - Model: "+asset.Model)
		}
		if asset.Status.Name != "" {
			lines = append(lines, "  - Status: "+asset.Status.Name)
		}
		if asset.Hostname != "" {
			lines = append(lines, "  - Hostname: "+asset.Hostname)
		}
		if asset.IPAddress != "" {
			lines = append(lines, "  - IP Address: "+asset.IPAddress)
		}
	}

	return strings.Join(lines, "\n")
}

func formatErrors(errors []string) string {
	lines := []string{"### FETCH WARNINGS", "Some context could not be fetched:"}
	for _, err := range errors {
		lines = append(lines, "  - "+err)
	}
	return strings.Join(lines, "\n")
}

// cleanNote strips HTML tags and collapses whitespace, then truncates.
func cleanNote(note string) string {
	if note == "" {
		return ""
	}
	if strings.Contains(note, "<") {
		note = htmlTagPattern.ReplaceAllString(note, " ")
		note = strings.TrimSpace(whitespacePattern.ReplaceAllString(note, " "))
	}
	return truncate(note, maxNoteLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "... [truncated]"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
