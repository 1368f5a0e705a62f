package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if identity, err := GetIdentity(c); err == nil {
			attrs = append(attrs, "kind", identity.Kind, "account_id", identity.ID)
		}

		switch {
		case c.Writer.Status() >= 500:
			slog.ErrorContext(c.Request.Context(), "request", attrs...)
		case c.Writer.Status() >= 400:
			slog.WarnContext(c.Request.Context(), "request", attrs...)
		default:
			slog.InfoContext(c.Request.Context(), "request", attrs...)
		}
	}
}
