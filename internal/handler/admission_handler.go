package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

// admissionFormOverhead is the room left for text fields and multipart
// framing on top of the documents themselves.
const admissionFormOverhead = 1 << 20

// admissionFormMemory bounds the parts kept in memory; larger files spill to disk.
const admissionFormMemory = 8 << 20

// AdmissionHandler serves the public intake form and the admin review panel.
type AdmissionHandler struct {
	admissions   service.AdmissionService
	maxBodyBytes int64
}

// NewAdmissionHandler creates a new AdmissionHandler. maxUploadBytes is the
// per-document limit.
func NewAdmissionHandler(admissions service.AdmissionService, maxUploadBytes int64) *AdmissionHandler {
	return &AdmissionHandler{
		admissions:   admissions,
		maxBodyBytes: service.MaxAdmissionDocuments*maxUploadBytes + admissionFormOverhead,
	}
}

// SubmitAdmission godoc
// POST /api/v1/public/admissions
// Accepts a multipart application with optional "documents" file parts.
// The stored row is always pending.
func (h *AdmissionHandler) SubmitAdmission(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	if err := c.Request.ParseMultipartForm(admissionFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	var req model.AdmissionRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var documents []*multipart.FileHeader
	if form := c.Request.MultipartForm; form != nil {
		documents = form.File["documents"]
	}

	admission, err := h.admissions.Submit(c.Request.Context(), req, documents)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"admission": admission})
}

// ListAdmissions godoc
// GET /api/v1/admin/admissions
// Lists all applications, newest first.
func (h *AdmissionHandler) ListAdmissions(c *gin.Context) {
	admissions, err := h.admissions.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admissions": admissions})
}

// ReviewAdmission godoc
// PATCH /api/v1/admin/admissions/:id/review
// Approves or rejects a pending application on behalf of the signed-in admin.
func (h *AdmissionHandler) ReviewAdmission(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.ReviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admission, err := h.admissions.Review(c.Request.Context(), id, req.Status, session.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admission": admission})
}

// DeleteAdmission godoc
// DELETE /api/v1/admin/admissions/:id
// Removes the application and its stored documents.
func (h *AdmissionHandler) DeleteAdmission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.admissions.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "admission deleted successfully"})
}
