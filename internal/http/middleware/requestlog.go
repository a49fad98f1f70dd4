package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/pkg/logger"
)

// RequestLog logs one structured line per request.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("middleware", "requestlog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestLog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
