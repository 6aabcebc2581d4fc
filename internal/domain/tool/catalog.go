package tool

import "github.com/Wldc4rd/HaloClaude/internal/domain/llm"

// Catalog returns the Halo tool definitions advertised to the model. The
// schemas follow the provider's tool definition format.
func Catalog() []llm.Tool {
	return []llm.Tool{
		{
			Name: "get_ticket",
			Description: "Get detailed information about a specific ticket including its " +
				"full history, status, priority, and all associated data. Use this " +
				"when you need complete context about a ticket.",
			InputSchema: objectSchema(
				map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "The ticket ID number",
					},
				},
				"ticket_id",
			),
		},
		{
			Name: "get_user",
			Description: "Get information about a user including their contact details, " +
				"company affiliation, and role. Use this to understand who you're " +
				"helping and their context.",
			InputSchema: objectSchema(
				map[string]any{
					"user_id": map[string]any{
						"type":        "integer",
						"description": "The user ID number",
					},
				},
				"user_id",
			),
		},
		{
			Name: "get_user_tickets",
			Description: "Get a list of other tickets for a specific user. Use this to see " +
				"if the user has related issues or a pattern of problems that might " +
				"inform your response.",
			InputSchema: objectSchema(
				map[string]any{
					"user_id": map[string]any{
						"type":        "integer",
						"description": "The user ID number",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Maximum number of tickets to return (default: 10)",
						"default":     10,
					},
					"open_only": map[string]any{
						"type":        "boolean",
						"description": "Only return open/active tickets",
						"default":     false,
					},
				},
				"user_id",
			),
		},
		{
			Name: "get_client",
			Description: "Get information about a client/company including their details, " +
				"service level, and configuration. Use this to understand the " +
				"business context.",
			InputSchema: objectSchema(
				map[string]any{
					"client_id": map[string]any{
						"type":        "integer",
						"description": "The client/company ID number",
					},
				},
				"client_id",
			),
		},
		{
			Name: "get_client_tickets",
			Description: "Get a list of recent tickets for a client/company. Use this to " +
				"see if there are company-wide issues or patterns that relate to " +
				"the current ticket.",
			InputSchema: objectSchema(
				map[string]any{
					"client_id": map[string]any{
						"type":        "integer",
						"description": "The client/company ID number",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Maximum number of tickets to return (default: 10)",
						"default":     10,
					},
					"open_only": map[string]any{
						"type":        "boolean",
						"description": "Only return open/active tickets",
						"default":     false,
					},
				},
				"client_id",
			),
		},
		{
			Name: "get_asset",
			Description: "Get information about an asset/device including its configuration, " +
				"specifications, and history. Use this when the ticket involves " +
				"specific hardware or devices.",
			InputSchema: objectSchema(
				map[string]any{
					"asset_id": map[string]any{
						"type":        "integer",
						"description": "The asset ID number",
					},
				},
				"asset_id",
			),
		},
		{
			Name: "search_tickets",
			Description: "Search for tickets matching a query. Use this to find related " +
				"tickets, similar issues, or past resolutions that might help.",
			InputSchema: objectSchema(
				map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query (e.g., error message, topic, keyword)",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default: 10)",
						"default":     10,
					},
					"client_id": map[string]any{
						"type":        "integer",
						"description": "Filter results to a specific client/company",
					},
					"user_id": map[string]any{
						"type":        "integer",
						"description": "Filter results to a specific user",
					},
				},
				"query",
			),
		},
		{
			Name: "search_kb",
			Description: "Search the knowledge base for articles matching a query. Use this " +
				"to find documented solutions, procedures, or information that might " +
				"help resolve the issue.",
			InputSchema: objectSchema(
				map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query for knowledge base articles",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default: 5)",
						"default":     5,
					},
				},
				"query",
			),
		},
		{
			Name: "get_kb_article",
			Description: "Get the full content of a specific knowledge base article. Use this " +
				"after searching the KB to get complete article details.",
			InputSchema: objectSchema(
				map[string]any{
					"article_id": map[string]any{
						"type":        "integer",
						"description": "The knowledge base article ID",
					},
				},
				"article_id",
			),
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
