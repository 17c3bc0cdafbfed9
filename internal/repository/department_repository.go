package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// DepartmentRepository handles department data access.
type DepartmentRepository interface {
	List(ctx context.Context) ([]model.Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	Create(ctx context.Context, d *model.Department) error
	Update(ctx context.Context, d *model.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository creates a new DepartmentRepository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, code, description, head_of_department, created_at
		 FROM departments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.HeadOfDepartment, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	d := &model.Department{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, code, description, head_of_department, created_at FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.HeadOfDepartment, &d.CreatedAt)
	if err != nil {
		return nil, mapError(err, false)
	}
	return d, nil
}

func (r *departmentRepository) Create(ctx context.Context, d *model.Department) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO departments (name, code, description, head_of_department)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		d.Name, d.Code, d.Description, d.HeadOfDepartment,
	).Scan(&d.ID, &d.CreatedAt)
	return mapError(err, false)
}

func (r *departmentRepository) Update(ctx context.Context, d *model.Department) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE departments SET name = $1, code = $2, description = $3, head_of_department = $4
		 WHERE id = $5
		 RETURNING created_at`,
		d.Name, d.Code, d.Description, d.HeadOfDepartment, d.ID,
	).Scan(&d.CreatedAt)
	return mapError(err, false)
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	return requireAffected(tag, mapError(err, true))
}

func (r *departmentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n)
	return n, err
}
