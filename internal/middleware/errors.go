package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backtide/backtide/internal/domain/dto"
	"github.com/backtide/backtide/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context via c.Error
// into a single standardized JSON response.
//
// Behavior:
//   - Runs the rest of the handler chain first.
//   - If handlers recorded errors and no body was written yet, logs the
//     last error and responds with dto.NewErrorResponse.
//   - Uses the status already set on the writer, falling back to 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().
		Str("request_id", toString(rid)).
		Err(err).
		Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse("request failed", err))
}

// AbortWithError stops the handler chain and writes a standardized JSON
// error body with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
