package portal

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
)

// CourseDraft is the course form as typed. Numbers stay text until Build.
type CourseDraft struct {
	Name         string
	Code         string
	Description  string
	Credits      string
	Semester     string
	DepartmentID string
}

// Form defaults for a new course.
const (
	defaultCredits  = "3"
	defaultSemester = "1"
)

func (d CourseDraft) build() (model.CourseRequest, error) {
	errs := fieldErrors{}
	errs.required("name", d.Name)
	errs.required("code", d.Code)
	credits := parseInt(errs, "credits", d.Credits, true)
	semester := parseInt(errs, "semester", d.Semester, true)
	if err := errs.err(); err != nil {
		return model.CourseRequest{}, err
	}

	req := model.CourseRequest{
		Name:        strings.TrimSpace(d.Name),
		Code:        strings.TrimSpace(d.Code),
		Description: optionalString(d.Description),
		Credits:     credits,
		Semester:    semester,
	}
	// "" clears the department; the server maps a missing value to NULL.
	if id := strings.TrimSpace(d.DepartmentID); id != "" {
		req.DepartmentID = &id
	}
	return req, nil
}

// CourseFilter narrows the course list by name or code and semester.
// Semester 0 means any.
type CourseFilter struct {
	Search   string
	Semester int
}

func (f CourseFilter) Predicates() []Predicate[model.CourseWithDepartment] {
	preds := []Predicate[model.CourseWithDepartment]{
		func(c model.CourseWithDepartment) bool { return containsFold(f.Search, c.Name, c.Code) },
	}
	if f.Semester != 0 {
		preds = append(preds, func(c model.CourseWithDepartment) bool { return c.Semester == f.Semester })
	}
	return preds
}

type courseStore struct{ gw Gateway }

func (s courseStore) List(ctx context.Context) ([]model.CourseWithDepartment, error) {
	return s.gw.ListCourses(ctx)
}

func (s courseStore) Create(ctx context.Context, req model.CourseRequest) error {
	_, err := s.gw.CreateCourse(ctx, req)
	return err
}

func (s courseStore) Update(ctx context.Context, id uuid.UUID, req model.CourseRequest) error {
	_, err := s.gw.UpdateCourse(ctx, id, req)
	return err
}

func (s courseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.gw.DeleteCourse(ctx, id)
}

type CourseController = Controller[model.CourseWithDepartment, CourseDraft, model.CourseRequest]

// NewCourseController opens the course panel for an admin profile.
func NewCourseController(gw Gateway, profile *model.Profile, n Notifier, c Confirmer) (*CourseController, error) {
	if err := requireAdmin(profile); err != nil {
		return nil, err
	}
	return NewController(Config[model.CourseWithDepartment, CourseDraft, model.CourseRequest]{
		Noun:  "Course",
		Store: courseStore{gw},
		ID:    func(c model.CourseWithDepartment) uuid.UUID { return c.ID },
		Build: CourseDraft.build,
		Edit: func(c model.CourseWithDepartment) CourseDraft {
			d := CourseDraft{
				Name:        c.Name,
				Code:        c.Code,
				Description: deref(c.Description),
				Credits:     strconv.Itoa(c.Credits),
				Semester:    strconv.Itoa(c.Semester),
			}
			if c.DepartmentID != nil {
				d.DepartmentID = c.DepartmentID.String()
			}
			return d
		},
		Blank: func() CourseDraft { return CourseDraft{Credits: defaultCredits, Semester: defaultSemester} },
	}, n, c), nil
}
