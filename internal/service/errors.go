package service

import "errors"

// Sentinel errors returned by services. Repository sentinels
// (repository.ErrNotFound, ErrDuplicate, ErrDependencyExists,
// ErrInvalidReference) pass through wrapped.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionInvalidated = errors.New("session is no longer active")
	ErrInvalidDateRange   = errors.New("expire_date must be after publish_date")
	ErrInvalidDepartment  = errors.New("department_id is not a valid id")
	ErrAdmissionsClosed   = errors.New("admissions are closed")
	ErrAlreadyReviewed    = errors.New("admission already reviewed")
	ErrInvalidDecision    = errors.New("review status must be approved or rejected")
)

