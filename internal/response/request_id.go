package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

const maxRequestIDLen = 64

// RequestIDMiddleware tags every request with an ID, reusing a caller-supplied
// X-Request-ID when it is short enough to be trusted in logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestID returns the ID assigned by RequestIDMiddleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
