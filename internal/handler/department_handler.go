package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

// DepartmentHandler handles department management endpoints.
type DepartmentHandler struct {
	departments service.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(departments service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// ListDepartments godoc
// GET /api/v1/admin/departments
// GET /api/v1/public/departments
// Lists all departments, newest first.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// CreateDepartment godoc
// POST /api/v1/admin/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req model.DepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	department, err := h.departments.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"department": department})
}

// UpdateDepartment godoc
// PUT /api/v1/admin/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.DepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	department, err := h.departments.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"department": department})
}

// DeleteDepartment godoc
// DELETE /api/v1/admin/departments/:id
// Fails with DEPENDENCY_EXISTS while courses or members reference it.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.departments.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "department deleted successfully"})
}
