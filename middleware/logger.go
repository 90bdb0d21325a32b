package middleware

import (
	"time"

	"rent-hub/common/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetUpLogger attaches a request log line per call, written through the
// shared zap logger.
func SetUpLogger(server *gin.Engine) {
	server.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Logger.Info("request",
			zap.String("request_id", c.GetString(logger.RequestIdKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})
}
