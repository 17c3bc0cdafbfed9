package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/validator"
)

// CourseHandler handles course management endpoints.
type CourseHandler struct {
	courses service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// ListCourses godoc
// GET /api/v1/admin/courses
// GET /api/v1/public/courses
// Lists courses with their department, newest first.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateCourse godoc
// POST /api/v1/admin/courses
// An empty department_id is stored as no department.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/v1/admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "course deleted successfully"})
}
