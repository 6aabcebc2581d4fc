package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Wldc4rd/HaloClaude/internal/domain/completion"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/observability"
	"github.com/Wldc4rd/HaloClaude/internal/interfaces/httpserver/responses"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// ChatHandler serves the Azure OpenAI chat completions surface.
type ChatHandler struct {
	service *completion.Service
	log     zerolog.Logger
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(service *completion.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{service: service, log: log}
}

// CreateChatCompletion handles POST /openai/deployments/:deployment/chat/completions.
// The api-version query parameter is accepted and ignored; versioning is an
// Azure artifact with no equivalent on the provider side.
func (h *ChatHandler) CreateChatCompletion(c *gin.Context) {
	deployment := c.Param("deployment")

	ctx, span := observability.StartSpan(c.Request.Context(), "chat.completion",
		trace.WithAttributes(attribute.String("deployment", deployment)))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req openai.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "malformed request body", err))
		return
	}

	if req.Stream {
		h.log.Debug().Str("deployment", deployment).Msg("stream requested, serving non-streaming response")
	}

	resp, err := h.service.Complete(ctx, deployment, req)
	if err != nil {
		observability.RecordError(ctx, err)
		platformerrors.LogErrorFromErr(h.log, err)
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
