// Package responses renders errors in the OpenAI wire shape so ticketing
// clients built against Azure OpenAI can parse them unchanged.
package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// ErrorBody is the OpenAI style error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the client facing error fields.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// clientMessage maps internal error classifications to generic client
// facing text. Upstream and internal details never leak to the caller.
func clientMessage(errorType platformerrors.ErrorType) (string, string) {
	switch errorType {
	case platformerrors.ErrorTypeValidation:
		return "The request is invalid.", "invalid_request_error"
	case platformerrors.ErrorTypeConfiguration:
		return "The requested deployment does not exist.", "invalid_request_error"
	case platformerrors.ErrorTypeUnauthorized:
		return "Invalid or missing API key.", "authentication_error"
	case platformerrors.ErrorTypeUpstreamAuth, platformerrors.ErrorTypeUpstreamCall, platformerrors.ErrorTypeProvider:
		return "An upstream service failed to respond.", "api_error"
	default:
		return "An internal error occurred.", "api_error"
	}
}

// HandleError writes a classified error response. Validation errors keep
// their own message so callers can fix malformed requests; everything
// else gets the generic text for its category.
func HandleError(c *gin.Context, err error) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.NewError(c.Request.Context(),
			platformerrors.LayerHandler, platformerrors.ErrorTypeInternal, "unclassified error", err)
	}

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
	message, errType := clientMessage(platformErr.Type)
	if platformErr.Type == platformerrors.ErrorTypeValidation && platformErr.Message != "" {
		message = platformErr.Message
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorBody{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Code:    string(platformErr.Type),
		},
	})
}

// HandleUnauthorized writes a 401 in the OpenAI error shape.
func HandleUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{
		Error: ErrorDetail{
			Message: message,
			Type:    "authentication_error",
			Code:    string(platformerrors.ErrorTypeUnauthorized),
		},
	})
}
