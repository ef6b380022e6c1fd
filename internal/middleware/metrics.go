package middleware

import (
	"strconv"
	"time"

	"orgmanager/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// Metrics records telemetry.HTTPRequestsTotal and telemetry.HTTPRequestDuration
// for every request. Unmatched routes are labelled "<no-route>".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}
		method := c.Request.Method

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
