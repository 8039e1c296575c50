package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestIDFrom returns the id assigned to this request.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDHeader)
}

// RequestID honors an inbound X-Request-Id from a trusted proxy and
// assigns one otherwise, echoing it on the response either way.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}
