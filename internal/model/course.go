package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is a unit of study offered in a given semester.
type Course struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code"`
	Description  *string    `json:"description,omitempty"`
	Credits      int        `json:"credits"`
	Semester     int        `json:"semester"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CourseWithDepartment is a course joined with its (optional) department.
type CourseWithDepartment struct {
	Course
	Department *DepartmentSummary `json:"department,omitempty"`
}

// CourseRequest is the payload for creating or updating a course.
// An empty department_id clears the reference.
type CourseRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=150"`
	Code         string  `json:"code" binding:"required,min=1,max=20"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	Credits      int     `json:"credits" binding:"required,min=1,max=6"`
	Semester     int     `json:"semester" binding:"required,min=1,max=8"`
	DepartmentID *string `json:"department_id" binding:"omitempty"`
}
