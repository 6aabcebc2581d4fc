package handlers

import (
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/completion"
)

// Provider bundles the HTTP handlers for route registration.
type Provider struct {
	Chat *ChatHandler
}

// NewProvider constructs the handler provider.
func NewProvider(completionService *completion.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat: NewChatHandler(completionService, log),
	}
}
