package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository interface {
	List(ctx context.Context) ([]model.CourseWithDepartment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CourseWithDepartment, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseSelect = `
	SELECT c.id, c.name, c.code, c.description, c.credits, c.semester, c.department_id, c.created_at,
	       d.id, d.name, d.code
	FROM courses c
	LEFT JOIN departments d ON d.id = c.department_id`

func scanCourse(row pgx.Row) (model.CourseWithDepartment, error) {
	var (
		c        model.CourseWithDepartment
		deptID   *uuid.UUID
		deptName *string
		deptCode *string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Credits, &c.Semester, &c.DepartmentID, &c.CreatedAt,
		&deptID, &deptName, &deptCode)
	if err != nil {
		return c, err
	}
	if deptID != nil {
		c.Department = &model.DepartmentSummary{ID: *deptID, Name: *deptName, Code: *deptCode}
	}
	return c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]model.CourseWithDepartment, error) {
	rows, err := r.pool.Query(ctx, courseSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]model.CourseWithDepartment, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CourseWithDepartment, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapError(err, false)
	}
	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, code, description, credits, semester, department_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.Name, c.Code, c.Description, c.Credits, c.Semester, c.DepartmentID,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err, false)
}

func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE courses
		 SET name = $1, code = $2, description = $3, credits = $4, semester = $5, department_id = $6
		 WHERE id = $7
		 RETURNING created_at`,
		c.Name, c.Code, c.Description, c.Credits, c.Semester, c.DepartmentID, c.ID,
	).Scan(&c.CreatedAt)
	return mapError(err, false)
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return requireAffected(tag, mapError(err, true))
}

func (r *courseRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}
