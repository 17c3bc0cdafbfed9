package model

import (
	"time"

	"github.com/google/uuid"
)

// Department is an academic department. Code is unique per institution.
type Department struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	Description      *string   `json:"description,omitempty"`
	HeadOfDepartment *string   `json:"head_of_department,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// DepartmentSummary is the nested department carried by joined rows.
type DepartmentSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// DepartmentRequest is the payload for creating or updating a department.
type DepartmentRequest struct {
	Name             string  `json:"name" binding:"required,min=2,max=150"`
	Code             string  `json:"code" binding:"required,min=1,max=20"`
	Description      *string `json:"description" binding:"omitempty,max=2000"`
	HeadOfDepartment *string `json:"head_of_department" binding:"omitempty,max=150"`
}
