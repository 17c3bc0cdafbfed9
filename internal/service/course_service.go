package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
)

// CourseService handles course business logic.
type CourseService interface {
	List(ctx context.Context) ([]model.CourseWithDepartment, error)
	Create(ctx context.Context, req model.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseService struct {
	repo repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo repository.CourseRepository) CourseService {
	return &courseService{repo: repo}
}

func (s *courseService) List(ctx context.Context) ([]model.CourseWithDepartment, error) {
	return s.repo.List(ctx)
}

func (s *courseService) Create(ctx context.Context, req model.CourseRequest) (*model.Course, error) {
	c, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

func (s *courseService) Update(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error) {
	c, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update course %s: %w", id, err)
	}
	return c, nil
}

func (s *courseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	return nil
}

func courseFromRequest(req model.CourseRequest) (*model.Course, error) {
	deptID, err := ParseOptionalID(req.DepartmentID)
	if err != nil {
		return nil, err
	}
	return &model.Course{
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:  nullIfBlank(req.Description),
		Credits:      req.Credits,
		Semester:     req.Semester,
		DepartmentID: deptID,
	}, nil
}

// ParseOptionalID normalises an optional foreign key: a missing or blank
// value means "no reference" and anything else must be a UUID.
func ParseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, ErrInvalidDepartment
	}
	return &id, nil
}
