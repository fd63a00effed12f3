package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler logs request-scoped errors and maps the engine's error
// taxonomy onto HTTP statuses: validation failures are the user's to fix,
// feed failures are upstream.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last()
		status := http.StatusInternalServerError
		switch {
		case isValidation(lastErr.Err):
			status = http.StatusBadRequest
		case isDataSource(lastErr.Err):
			status = http.StatusBadGateway
		}

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: lastErr.Error(),
			TraceID: requestID,
		})
	}
}

func isValidation(err error) bool {
	_, ok := apperrors.AsValidation(err)
	return ok
}

func isDataSource(err error) bool {
	_, ok := apperrors.AsDataSource(err)
	return ok
}
