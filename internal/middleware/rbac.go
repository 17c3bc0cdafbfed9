package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
)

// RequireRole lets the request through only when the session role is one of
// roles. It must run after RequireSession.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if session.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrRoleForbidden)
	}
}
