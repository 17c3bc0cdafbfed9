package model

// Stats are the institution-wide counters shown on the admin dashboard.
type Stats struct {
	Students          int `json:"students"`
	Faculty           int `json:"faculty"`
	Departments       int `json:"departments"`
	Courses           int `json:"courses"`
	PendingAdmissions int `json:"pending_admissions"`
	ActiveNotices     int `json:"active_notices"`
}

// FacultyStats are the counters shown on a faculty member's dashboard.
type FacultyStats struct {
	MyCourses     int `json:"my_courses"`
	MyStudents    int `json:"my_students"`
	PendingGrades int `json:"pending_grades"`
	MyNotices     int `json:"my_notices"`
}

// StudentStats are the counters shown on a student's dashboard.
type StudentStats struct {
	CurrentSemester  int     `json:"current_semester"`
	EnrolledCourses  int     `json:"enrolled_courses"`
	CompletedCourses int     `json:"completed_courses"`
	CurrentGPA       float64 `json:"current_gpa"`
}

// Dashboard is the role-specific payload of GET /api/v1/dashboard.
// Exactly one of Admin, Faculty or Student is set, matching Role.
type Dashboard struct {
	Role    Role              `json:"role"`
	Profile *Profile          `json:"profile"`
	Admin   *AdminDashboard   `json:"admin,omitempty"`
	Faculty *FacultyDashboard `json:"faculty,omitempty"`
	Student *StudentDashboard `json:"student,omitempty"`
}

// AdminDashboard carries the institution stats.
type AdminDashboard struct {
	Stats Stats `json:"stats"`
}

// FacultyDashboard carries the faculty record (if any) and personal counters.
type FacultyDashboard struct {
	Info  *FacultyWithDepartment `json:"info,omitempty"`
	Stats FacultyStats           `json:"stats"`
}

// StudentDashboard carries the student record (if any) and personal counters.
type StudentDashboard struct {
	Info  *StudentWithDepartment `json:"info,omitempty"`
	Stats StudentStats           `json:"stats"`
}
