// Package middleware provides the Gin middleware chain for the identity
// service: panic recovery, request ids, request logging, telemetry, and the
// bearer-token authentication gate.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the Gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestID injects a unique X-Request-Id header into every
// request/response, honoring an id the client already sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
