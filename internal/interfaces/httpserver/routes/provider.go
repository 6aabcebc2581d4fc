package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Wldc4rd/HaloClaude/internal/interfaces/httpserver/handlers"
)

// Provider coordinates all route registrations.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		handlers: handlerProvider,
	}
}

// Register attaches the Azure OpenAI compatible surface to the router
// group. Clients address models by deployment name, so the completions
// endpoint lives under /openai/deployments.
func (p *Provider) Register(group *gin.RouterGroup) {
	openaiGroup := group.Group("/openai")
	openaiGroup.POST("/deployments/:deployment/chat/completions", p.handlers.Chat.CreateChatCompletion)
}
