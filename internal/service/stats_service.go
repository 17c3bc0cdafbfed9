package service

import (
	"context"
	"fmt"

	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"golang.org/x/sync/errgroup"
)

// StatsService computes the institution counters for the admin dashboard.
type StatsService interface {
	Collect(ctx context.Context) (*model.Stats, error)
}

type statsService struct {
	members     repository.MemberRepository
	departments repository.DepartmentRepository
	courses     repository.CourseRepository
	admissions  repository.AdmissionRepository
	notices     repository.NoticeRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	members repository.MemberRepository,
	departments repository.DepartmentRepository,
	courses repository.CourseRepository,
	admissions repository.AdmissionRepository,
	notices repository.NoticeRepository,
) StatsService {
	return &statsService{
		members:     members,
		departments: departments,
		courses:     courses,
		admissions:  admissions,
		notices:     notices,
	}
}

// Collect runs the six count queries concurrently. Each query writes its own
// field, so the result does not depend on completion order. Any failure
// fails the whole call and no partial stats are returned.
func (s *statsService) Collect(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	g, ctx := errgroup.WithContext(ctx)

	count := func(name string, dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	count("students", &stats.Students, s.members.CountStudents)
	count("faculty", &stats.Faculty, s.members.CountFaculty)
	count("departments", &stats.Departments, s.departments.Count)
	count("courses", &stats.Courses, s.courses.Count)
	count("pending admissions", &stats.PendingAdmissions, func(ctx context.Context) (int, error) {
		return s.admissions.CountByStatus(ctx, model.ApplicationPending)
	})
	count("published notices", &stats.ActiveNotices, s.notices.CountPublished)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
