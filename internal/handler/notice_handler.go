package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

// NoticeHandler handles notice management and the public notice board.
type NoticeHandler struct {
	notices service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(notices service.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// ListNotices godoc
// GET /api/v1/admin/notices
// Lists every notice, drafts included, newest first.
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	notices, err := h.notices.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notices": notices})
}

// ListPublicNotices godoc
// GET /api/v1/public/notices
// Lists published notices that have not expired.
func (h *NoticeHandler) ListPublicNotices(c *gin.Context) {
	notices, err := h.notices.ListPublic(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notices": notices})
}

// CreateNotice godoc
// POST /api/v1/admin/notices
// The author is always the signed-in user.
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.NoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.notices.Create(c.Request.Context(), session.UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"notice": notice})
}

// UpdateNotice godoc
// PUT /api/v1/admin/notices/:id
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.NoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.notices.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notice": notice})
}

// PublishNotice godoc
// PATCH /api/v1/admin/notices/:id/publish
// Changes only is_published.
func (h *NoticeHandler) PublishNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.PublishRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.notices.SetPublished(c.Request.Context(), id, *req.IsPublished)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notice": notice})
}

// DeleteNotice godoc
// DELETE /api/v1/admin/notices/:id
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notices.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "notice deleted successfully"})
}
