package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownRole is returned for a profile whose role has no dashboard.
var ErrUnknownRole = errors.New("unknown role")

// DashboardService builds the role-specific dashboard of a profile.
type DashboardService interface {
	Resolve(ctx context.Context, profile *model.Profile) (*model.Dashboard, error)
}

type dashboardService struct {
	stats   StatsService
	members repository.MemberRepository
	notices repository.NoticeRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(stats StatsService, members repository.MemberRepository, notices repository.NoticeRepository) DashboardService {
	return &dashboardService{stats: stats, members: members, notices: notices}
}

// Resolve picks the dashboard by role: admin, faculty and student each get
// their own payload and any other role is ErrUnknownRole.
func (s *dashboardService) Resolve(ctx context.Context, profile *model.Profile) (*model.Dashboard, error) {
	d := &model.Dashboard{Role: profile.Role, Profile: profile}

	switch profile.Role {
	case model.RoleAdmin:
		stats, err := s.stats.Collect(ctx)
		if err != nil {
			return nil, err
		}
		d.Admin = &model.AdminDashboard{Stats: *stats}
	case model.RoleFaculty:
		fd, err := s.faculty(ctx, profile)
		if err != nil {
			return nil, err
		}
		d.Faculty = fd
	case model.RoleStudent:
		sd, err := s.student(ctx, profile)
		if err != nil {
			return nil, err
		}
		d.Student = sd
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, profile.Role)
	}
	return d, nil
}

func (s *dashboardService) faculty(ctx context.Context, profile *model.Profile) (*model.FacultyDashboard, error) {
	fd := &model.FacultyDashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := s.members.GetFaculty(ctx, profile.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get faculty: %w", err)
		}
		fd.Info = info
		return nil
	})
	g.Go(func() error {
		courses, students, ungraded, err := s.members.FacultyTeachingCounts(ctx, profile.ID)
		if err != nil {
			return fmt.Errorf("count teaching: %w", err)
		}
		fd.Stats.MyCourses, fd.Stats.MyStudents, fd.Stats.PendingGrades = courses, students, ungraded
		return nil
	})
	g.Go(func() error {
		n, err := s.notices.CountByAuthor(ctx, profile.ID)
		if err != nil {
			return fmt.Errorf("count notices: %w", err)
		}
		fd.Stats.MyNotices = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fd, nil
}

func (s *dashboardService) student(ctx context.Context, profile *model.Profile) (*model.StudentDashboard, error) {
	sd := &model.StudentDashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := s.members.GetStudent(ctx, profile.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get student: %w", err)
		}
		sd.Info = info
		return nil
	})
	g.Go(func() error {
		n, err := s.members.CountStudentEnrollments(ctx, profile.ID, model.EnrollmentEnrolled)
		if err != nil {
			return fmt.Errorf("count enrolled: %w", err)
		}
		sd.Stats.EnrolledCourses = n
		return nil
	})
	g.Go(func() error {
		n, err := s.members.CountStudentEnrollments(ctx, profile.ID, model.EnrollmentCompleted)
		if err != nil {
			return fmt.Errorf("count completed: %w", err)
		}
		sd.Stats.CompletedCourses = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A student without an academic record starts in semester 1 with no GPA.
	sd.Stats.CurrentSemester = 1
	if sd.Info != nil {
		sd.Stats.CurrentSemester = sd.Info.CurrentSemester
		if sd.Info.GPA != nil {
			sd.Stats.CurrentGPA = *sd.Info.GPA
		}
	}
	return sd, nil
}
