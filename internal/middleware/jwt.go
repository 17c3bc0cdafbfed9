package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
)

const (
	// ContextKeySession is the Gin context key for the verified session.
	ContextKeySession = "session"
	// ContextKeyToken is the Gin context key for the raw bearer token.
	ContextKeyToken = "token"
)

// RequireSession verifies the bearer token from the Authorization header and
// checks that its session has not been signed out.
func RequireSession(verifier service.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		authenticate(c, verifier, tokenStr)
	}
}

// RequireWSSession verifies a token passed as ?token=... on WebSocket
// upgrade requests, which cannot carry an Authorization header.
func RequireWSSession(verifier service.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = bearerToken(c)
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		authenticate(c, verifier, tokenStr)
	}
}

func authenticate(c *gin.Context, verifier service.SessionVerifier, tokenStr string) {
	session, err := verifier.Verify(c.Request.Context(), tokenStr)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalidated) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	c.Set(ContextKeySession, session)
	c.Set(ContextKeyToken, tokenStr)
	c.Next()
}

// GetSession retrieves the verified session from the Gin context.
func GetSession(c *gin.Context) *model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	session, ok := val.(*model.Session)
	if !ok {
		return nil
	}
	return session
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
