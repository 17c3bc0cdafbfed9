package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// AdmissionRepository handles admission application data access.
type AdmissionRepository interface {
	List(ctx context.Context) ([]model.Admission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Admission, error)
	Create(ctx context.Context, a *model.Admission) error
	// Review sets the decision on a still-pending admission. It returns
	// ErrNotFound when no pending admission has the given ID.
	Review(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewer uuid.UUID) (*model.Admission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status model.ApplicationStatus) (int, error)
}

type admissionRepository struct {
	pool *pgxpool.Pool
}

// NewAdmissionRepository creates a new AdmissionRepository.
func NewAdmissionRepository(pool *pgxpool.Pool) AdmissionRepository {
	return &admissionRepository{pool: pool}
}

const admissionColumns = `id, applicant_name, email, phone, date_of_birth, address, course_type,
	previous_qualification, marks_percentage, department_id, documents, application_status,
	submitted_at, reviewed_at, reviewed_by`

func scanAdmission(row pgx.Row) (model.Admission, error) {
	var a model.Admission
	err := row.Scan(&a.ID, &a.ApplicantName, &a.Email, &a.Phone, &a.DateOfBirth, &a.Address, &a.CourseType,
		&a.PreviousQualification, &a.MarksPercentage, &a.DepartmentID, &a.Documents, &a.ApplicationStatus,
		&a.SubmittedAt, &a.ReviewedAt, &a.ReviewedBy)
	if a.Documents == nil {
		a.Documents = []string{}
	}
	return a, err
}

func (r *admissionRepository) List(ctx context.Context) ([]model.Admission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+admissionColumns+` FROM admissions ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admissions := make([]model.Admission, 0)
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		admissions = append(admissions, a)
	}
	return admissions, rows.Err()
}

func (r *admissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	a, err := scanAdmission(r.pool.QueryRow(ctx, `SELECT `+admissionColumns+` FROM admissions WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, false)
	}
	return &a, nil
}

// Create inserts a new application. Status and submission time are always
// set by the database, whatever the caller put in a.
func (r *admissionRepository) Create(ctx context.Context, a *model.Admission) error {
	if a.Documents == nil {
		a.Documents = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admissions (applicant_name, email, phone, date_of_birth, address, course_type,
		                         previous_qualification, marks_percentage, department_id, documents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, application_status, submitted_at, reviewed_at, reviewed_by`,
		a.ApplicantName, a.Email, a.Phone, a.DateOfBirth, a.Address, a.CourseType,
		a.PreviousQualification, a.MarksPercentage, a.DepartmentID, a.Documents,
	).Scan(&a.ID, &a.ApplicationStatus, &a.SubmittedAt, &a.ReviewedAt, &a.ReviewedBy)
	return mapError(err, false)
}

func (r *admissionRepository) Review(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewer uuid.UUID) (*model.Admission, error) {
	a, err := scanAdmission(r.pool.QueryRow(ctx,
		`UPDATE admissions
		 SET application_status = $1, reviewed_at = NOW(), reviewed_by = $2
		 WHERE id = $3 AND application_status = 'pending'
		 RETURNING `+admissionColumns,
		status, reviewer, id))
	if err != nil {
		return nil, mapError(err, false)
	}
	return &a, nil
}

func (r *admissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admissions WHERE id = $1`, id)
	return requireAffected(tag, mapError(err, true))
}

func (r *admissionRepository) CountByStatus(ctx context.Context, status model.ApplicationStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admissions WHERE application_status = $1`, status).Scan(&n)
	return n, err
}
