package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// MemberRepository reads the academic records behind faculty and student
// profiles, plus the enrollment counters shown on their dashboards.
type MemberRepository interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentWithDepartment, error)
	GetFaculty(ctx context.Context, id uuid.UUID) (*model.FacultyWithDepartment, error)
	CountStudents(ctx context.Context) (int, error)
	CountFaculty(ctx context.Context) (int, error)
	CountStudentEnrollments(ctx context.Context, studentID uuid.UUID, status model.EnrollmentStatus) (int, error)
	FacultyTeachingCounts(ctx context.Context, facultyID uuid.UUID) (courses, students, ungraded int, err error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentWithDepartment, error) {
	var (
		s                  model.StudentWithDepartment
		deptID             *uuid.UUID
		deptName, deptCode *string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.student_id, s.department_id, s.admission_year, s.graduation_year,
		        s.current_semester, s.gpa, s.status, s.created_at,
		        d.id, d.name, d.code
		 FROM students s
		 LEFT JOIN departments d ON d.id = s.department_id
		 WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.StudentID, &s.DepartmentID, &s.AdmissionYear, &s.GraduationYear,
		&s.CurrentSemester, &s.GPA, &s.Status, &s.CreatedAt,
		&deptID, &deptName, &deptCode)
	if err != nil {
		return nil, mapError(err, false)
	}
	if deptID != nil {
		s.Department = &model.DepartmentSummary{ID: *deptID, Name: *deptName, Code: *deptCode}
	}
	return &s, nil
}

func (r *memberRepository) GetFaculty(ctx context.Context, id uuid.UUID) (*model.FacultyWithDepartment, error) {
	var (
		f                  model.FacultyWithDepartment
		deptID             *uuid.UUID
		deptName, deptCode *string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT f.id, f.employee_id, f.designation, f.department_id, f.qualification,
		        f.specialization, f.experience_years, f.created_at,
		        d.id, d.name, d.code
		 FROM faculty f
		 LEFT JOIN departments d ON d.id = f.department_id
		 WHERE f.id = $1`, id,
	).Scan(&f.ID, &f.EmployeeID, &f.Designation, &f.DepartmentID, &f.Qualification,
		&f.Specialization, &f.ExperienceYears, &f.CreatedAt,
		&deptID, &deptName, &deptCode)
	if err != nil {
		return nil, mapError(err, false)
	}
	if deptID != nil {
		f.Department = &model.DepartmentSummary{ID: *deptID, Name: *deptName, Code: *deptCode}
	}
	return &f, nil
}

func (r *memberRepository) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'student'`).Scan(&n)
	return n, err
}

func (r *memberRepository) CountFaculty(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'faculty'`).Scan(&n)
	return n, err
}

func (r *memberRepository) CountStudentEnrollments(ctx context.Context, studentID uuid.UUID, status model.EnrollmentStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND status = $2`,
		studentID, status,
	).Scan(&n)
	return n, err
}

// FacultyTeachingCounts returns the distinct courses taught, the enrollments
// taught and the completed enrollments still missing a grade.
func (r *memberRepository) FacultyTeachingCounts(ctx context.Context, facultyID uuid.UUID) (courses, students, ungraded int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT course_id),
		        COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'completed' AND grade IS NULL)
		 FROM enrollments WHERE faculty_id = $1`, facultyID,
	).Scan(&courses, &students, &ungraded)
	return
}
