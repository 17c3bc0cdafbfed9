package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

type SettingHandler struct {
	settings service.SettingService
}

func NewSettingHandler(settings service.SettingService) *SettingHandler {
	return &SettingHandler{settings: settings}
}

// GetAllSettings godoc
// GET /api/v1/admin/settings
func (h *SettingHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings godoc
// PUT /api/v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settings.Update(c.Request.Context(), req.Settings); err != nil {
		fail(c, err)
		return
	}

	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// GetPublicSettings godoc
// GET /api/v1/public/settings
func (h *SettingHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}
