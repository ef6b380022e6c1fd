// Package middleware provides the gin middleware shared by every route.
//
// Registration order in the server:
//
//	Recovery → RequestID → Logger → Metrics → CORS → (RequireBearer) → Handler
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header used to propagate the request identifier.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key under which the request ID is stored.
	// It is reported to clients as the envelope's trace_id.
	RequestIDKey = "request_id"
)

// RequestID reuses an inbound X-Request-ID or generates a UUID v4, stores it
// under RequestIDKey and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request ID of c, generating one when the
// RequestID middleware did not run.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Set(RequestIDKey, id)
	return id
}
