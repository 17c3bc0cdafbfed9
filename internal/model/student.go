package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is the academic record of a profile with the student role.
type Student struct {
	ID              uuid.UUID  `json:"id"`
	StudentID       string     `json:"student_id"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty"`
	AdmissionYear   int        `json:"admission_year"`
	GraduationYear  *int       `json:"graduation_year,omitempty"`
	CurrentSemester int        `json:"current_semester"`
	GPA             *float64   `json:"gpa,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// StudentWithDepartment is a student joined with its (optional) department.
type StudentWithDepartment struct {
	Student
	Department *DepartmentSummary `json:"department,omitempty"`
}

// Faculty is the employment record of a profile with the faculty role.
type Faculty struct {
	ID              uuid.UUID  `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Designation     string     `json:"designation"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty"`
	Qualification   *string    `json:"qualification,omitempty"`
	Specialization  *string    `json:"specialization,omitempty"`
	ExperienceYears *int       `json:"experience_years,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FacultyWithDepartment is a faculty member joined with its (optional) department.
type FacultyWithDepartment struct {
	Faculty
	Department *DepartmentSummary `json:"department,omitempty"`
}
