package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
)

// DepartmentService handles department business logic.
type DepartmentService interface {
	List(ctx context.Context) ([]model.Department, error)
	Create(ctx context.Context, req model.DepartmentRequest) (*model.Department, error)
	Update(ctx context.Context, id uuid.UUID, req model.DepartmentRequest) (*model.Department, error)
	// Delete removes a department. It fails with repository.ErrDependencyExists
	// while courses, students or faculty still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentService struct {
	repo repository.DepartmentRepository
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.repo.List(ctx)
}

func (s *departmentService) Create(ctx context.Context, req model.DepartmentRequest) (*model.Department, error) {
	d := departmentFromRequest(req)
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return d, nil
}

func (s *departmentService) Update(ctx context.Context, id uuid.UUID, req model.DepartmentRequest) (*model.Department, error) {
	d := departmentFromRequest(req)
	d.ID = id
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update department %s: %w", id, err)
	}
	return d, nil
}

func (s *departmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete department %s: %w", id, err)
	}
	return nil
}

func departmentFromRequest(req model.DepartmentRequest) *model.Department {
	return &model.Department{
		Name:             strings.TrimSpace(req.Name),
		Code:             strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:      nullIfBlank(req.Description),
		HeadOfDepartment: nullIfBlank(req.HeadOfDepartment),
	}
}

// nullIfBlank maps a missing or whitespace-only optional string to nil.
func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
