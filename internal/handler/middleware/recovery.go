package middleware

import (
	"log/slog"
	"net/http"

	"visitdesk/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the standard 500 envelope instead of
// gin's default plain-text response.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered),
		)
		httperr.AbortWithError(c, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	})
}
