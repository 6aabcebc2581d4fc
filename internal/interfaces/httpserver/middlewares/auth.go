package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/interfaces/httpserver/responses"
)

// AuthMiddleware validates the shared proxy key. Azure OpenAI clients send
// it in the api-key header; a Bearer token is accepted as a fallback for
// tools that only speak the OpenAI convention.
func AuthMiddleware(masterKey string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader("api-key"))
		if provided == "" {
			if authHeader := c.GetHeader("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					provided = strings.TrimSpace(parts[1])
				}
			}
		}

		if provided == "" {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleUnauthorized(c, "Missing API key. Pass it in the api-key header.")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(masterKey)) != 1 {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("rejected request with invalid API key")
			responses.HandleUnauthorized(c, "Invalid API key.")
			return
		}

		c.Next()
	}
}
