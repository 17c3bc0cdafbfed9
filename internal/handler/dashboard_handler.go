package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
)

// DashboardHandler serves the role dashboards and institution stats.
type DashboardHandler struct {
	auth       Authenticator
	dashboards service.DashboardService
	stats      service.StatsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(auth Authenticator, dashboards service.DashboardService, stats service.StatsService) *DashboardHandler {
	return &DashboardHandler{auth: auth, dashboards: dashboards, stats: stats}
}

// GetDashboard godoc
// GET /api/v1/dashboard
// Loads the caller's profile and returns the dashboard of its role.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrProfileMissing)
			return
		}
		fail(c, err)
		return
	}

	dashboard, err := h.dashboards.Resolve(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRole) {
			response.Fail(c, http.StatusForbidden, response.ErrRoleForbidden)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetStats godoc
// GET /api/v1/admin/stats
// Returns the six institution counters. Any failed count fails the request.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.Collect(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
