package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
)

// fail maps a service or repository error onto the response envelope.
// Unknown errors are attached to the context for the request logger and
// reported as INTERNAL_ERROR.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"expire_date": "expire_date must be after publish_date"})
	case errors.Is(err, service.ErrInvalidDepartment), errors.Is(err, repository.ErrInvalidReference):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"department_id": "department_id must reference an existing department"})
	case errors.Is(err, service.ErrInvalidDecision):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"status": "status must be approved or rejected"})
	case errors.Is(err, service.ErrInvalidSetting):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"settings": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrDependencyExists):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, service.ErrAdmissionsClosed):
		response.Fail(c, http.StatusForbidden, response.ErrAdmissionsClosed)
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyReviewed)
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrTooManyFiles):
		response.Fail(c, http.StatusBadRequest, response.ErrTooManyFiles)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// pathID parses the :id route parameter, answering INVALID_ID on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
