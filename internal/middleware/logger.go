package middleware

import (
	"time"

	"orgmanager/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger attaches a request scoped logger to the request context and logs
// one line per request once it completes.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With(zap.String("request_id", GetRequestID(c)))
		c.Request = c.Request.WithContext(logger.NewContextWithLogger(c.Request.Context(), reqLog))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Error("request", fields...)
		case status >= 400:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}
	}
}
