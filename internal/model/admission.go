package model

import (
	"time"

	"github.com/google/uuid"
)

// Admission is an application submitted through the public intake form.
type Admission struct {
	ID                    uuid.UUID         `json:"id"`
	ApplicantName         string            `json:"applicant_name"`
	Email                 string            `json:"email"`
	Phone                 string            `json:"phone"`
	DateOfBirth           *time.Time        `json:"date_of_birth,omitempty"`
	Address               *string           `json:"address,omitempty"`
	CourseType            CourseType        `json:"course_type"`
	PreviousQualification *string           `json:"previous_qualification,omitempty"`
	MarksPercentage       *float64          `json:"marks_percentage,omitempty"`
	DepartmentID          *uuid.UUID        `json:"department_id,omitempty"`
	Documents             []string          `json:"documents"`
	ApplicationStatus     ApplicationStatus `json:"application_status"`
	SubmittedAt           time.Time         `json:"submitted_at"`
	ReviewedAt            *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy            *uuid.UUID        `json:"reviewed_by,omitempty"`
}

// AdmissionRequest is the multipart form submitted by an applicant.
// Documents are read from the "documents" file parts.
type AdmissionRequest struct {
	ApplicantName         string   `form:"applicant_name" binding:"required,min=2,max=150"`
	Email                 string   `form:"email" binding:"required,email,max=255"`
	Phone                 string   `form:"phone" binding:"required,min=6,max=30"`
	DateOfBirth           string   `form:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address               string   `form:"address" binding:"omitempty,max=500"`
	CourseType            string   `form:"course_type" binding:"required,course_type"`
	PreviousQualification string   `form:"previous_qualification" binding:"omitempty,max=200"`
	MarksPercentage       *float64 `form:"marks_percentage" binding:"omitempty,min=0,max=100"`
	DepartmentID          string   `form:"department_id" binding:"omitempty,uuid"`
}

// ReviewRequest records an admin decision on an admission.
type ReviewRequest struct {
	Status ApplicationStatus `json:"status" binding:"required,application_status,ne=pending"`
}
