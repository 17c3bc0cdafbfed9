package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets a public Cache-Control header, used for uploaded documents.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore marks responses as never cacheable. Applied to authenticated routes
// so shared caches never keep another user's data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
