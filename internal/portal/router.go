package portal

import (
	"fmt"
	"strconv"

	"github.com/stcolombus/campus-portal/internal/model"
)

// View is one top-level screen of the console.
type View interface {
	Title() string
}

// StatCard is one labelled counter on a dashboard.
type StatCard struct {
	Label string
	Value string
}

type AdminDashboard struct{}

func (AdminDashboard) Title() string { return "Admin Dashboard" }

// Cards lays out the institution counters.
func (AdminDashboard) Cards(s model.Stats) []StatCard {
	return []StatCard{
		{Label: "Total Students", Value: strconv.Itoa(s.Students)},
		{Label: "Faculty Members", Value: strconv.Itoa(s.Faculty)},
		{Label: "Departments", Value: strconv.Itoa(s.Departments)},
		{Label: "Courses", Value: strconv.Itoa(s.Courses)},
		{Label: "Pending Admissions", Value: strconv.Itoa(s.PendingAdmissions)},
		{Label: "Active Notices", Value: strconv.Itoa(s.ActiveNotices)},
	}
}

type FacultyDashboard struct{}

func (FacultyDashboard) Title() string { return "Faculty Dashboard" }

func (FacultyDashboard) Cards(s model.FacultyStats) []StatCard {
	return []StatCard{
		{Label: "My Courses", Value: strconv.Itoa(s.MyCourses)},
		{Label: "My Students", Value: strconv.Itoa(s.MyStudents)},
		{Label: "Pending Grades", Value: strconv.Itoa(s.PendingGrades)},
		{Label: "My Notices", Value: strconv.Itoa(s.MyNotices)},
	}
}

type StudentDashboard struct{}

func (StudentDashboard) Title() string { return "Student Dashboard" }

func (StudentDashboard) Cards(s model.StudentStats) []StatCard {
	return []StatCard{
		{Label: "Current Semester", Value: strconv.Itoa(s.CurrentSemester)},
		{Label: "Enrolled Courses", Value: strconv.Itoa(s.EnrolledCourses)},
		{Label: "Completed Courses", Value: strconv.Itoa(s.CompletedCourses)},
		{Label: "Current GPA", Value: fmt.Sprintf("%.2f", s.CurrentGPA)},
	}
}

// UnknownRoleDashboard is shown for a role the console does not know.
type UnknownRoleDashboard struct {
	Role model.Role
}

func (UnknownRoleDashboard) Title() string { return "Unknown role" }

// Route picks the dashboard for role. It has no side effects.
func Route(role model.Role) View {
	switch role {
	case model.RoleAdmin:
		return AdminDashboard{}
	case model.RoleFaculty:
		return FacultyDashboard{}
	case model.RoleStudent:
		return StudentDashboard{}
	default:
		return UnknownRoleDashboard{Role: role}
	}
}

// DashboardCards returns the counters of the dashboard matching d.Role.
// A dashboard without its role payload has no cards.
func DashboardCards(d *model.Dashboard) []StatCard {
	if d == nil {
		return nil
	}
	switch v := Route(d.Role).(type) {
	case AdminDashboard:
		if d.Admin != nil {
			return v.Cards(d.Admin.Stats)
		}
	case FacultyDashboard:
		if d.Faculty != nil {
			return v.Cards(d.Faculty.Stats)
		}
	case StudentDashboard:
		if d.Student != nil {
			return v.Cards(d.Student.Stats)
		}
	}
	return nil
}
