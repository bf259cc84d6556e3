package middleware

import (
	"log/slog"
	"time"

	"visitdesk/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logging writes one structured line per request. Errors handlers pushed
// onto the context come out with a truncated stack for 5xx triage.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		}

		switch {
		case c.Writer.Status() >= 500:
			for _, ginErr := range c.Errors {
				attrs = append(attrs, slog.Any("stack", errs.ExtractStackLines(ginErr.Err, 8)))
			}
			logger.Error("request failed", attrs...)
		case c.Writer.Status() >= 400:
			for _, ginErr := range c.Errors {
				attrs = append(attrs, slog.String("error", ginErr.Error()))
			}
			logger.Warn("request rejected", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}
