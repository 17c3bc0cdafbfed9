package portal

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

var errBoom = errors.New("boom")

// fakeGateway keeps rows in memory and counts every call.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	session    *model.Session
	sessionErr error
	profile    *model.Profile
	profileErr error
	// profileGate, when set, blocks GetProfile until it is closed.
	profileGate chan struct{}
	events      chan model.AuthEvent
	subErr      error

	dashboard *model.Dashboard

	departments []model.Department
	courses     []model.CourseWithDepartment
	notices     []model.Notice
	admissions  []model.Admission

	listErr   error
	mutateErr error

	submitted   *model.AdmissionRequest
	attachments []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}}
}

func (g *fakeGateway) hit(name string) {
	g.mu.Lock()
	g.calls[name]++
	g.mu.Unlock()
}

func (g *fakeGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *fakeGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *fakeGateway) GetSession(context.Context) (*model.Session, error) {
	g.hit("GetSession")
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, g.sessionErr
}

func (g *fakeGateway) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	g.hit("GetProfile")
	if g.profileGate != nil {
		select {
		case <-g.profileGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.profile, g.profileErr
}

func (g *fakeGateway) Subscribe(context.Context) (<-chan model.AuthEvent, error) {
	g.hit("Subscribe")
	if g.subErr != nil {
		return nil, g.subErr
	}
	if g.events == nil {
		g.events = make(chan model.AuthEvent, 4)
	}
	return g.events, nil
}

func (g *fakeGateway) Dashboard(context.Context) (*model.Dashboard, error) {
	g.hit("Dashboard")
	return g.dashboard, nil
}

func (g *fakeGateway) ListDepartments(context.Context) ([]model.Department, error) {
	g.hit("ListDepartments")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]model.Department(nil), g.departments...), nil
}

func (g *fakeGateway) ListPublicDepartments(ctx context.Context) ([]model.Department, error) {
	return g.ListDepartments(ctx)
}

func (g *fakeGateway) CreateDepartment(_ context.Context, req model.DepartmentRequest) (*model.Department, error) {
	g.hit("CreateDepartment")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	d := model.Department{ID: uuid.New(), Name: req.Name, Code: req.Code, Description: req.Description, CreatedAt: time.Now()}
	g.departments = append([]model.Department{d}, g.departments...)
	return &d, nil
}

func (g *fakeGateway) UpdateDepartment(_ context.Context, id uuid.UUID, req model.DepartmentRequest) (*model.Department, error) {
	g.hit("UpdateDepartment")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	for i := range g.departments {
		if g.departments[i].ID == id {
			g.departments[i].Name = req.Name
			g.departments[i].Code = req.Code
			return &g.departments[i], nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Code: "NOT_FOUND", Message: "department not found"}
}

func (g *fakeGateway) DeleteDepartment(_ context.Context, id uuid.UUID) error {
	g.hit("DeleteDepartment")
	if g.mutateErr != nil {
		return g.mutateErr
	}
	for i := range g.departments {
		if g.departments[i].ID == id {
			g.departments = append(g.departments[:i], g.departments[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{Status: 404, Code: "NOT_FOUND", Message: "department not found"}
}

func (g *fakeGateway) ListCourses(context.Context) ([]model.CourseWithDepartment, error) {
	g.hit("ListCourses")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]model.CourseWithDepartment(nil), g.courses...), nil
}

func (g *fakeGateway) CreateCourse(_ context.Context, req model.CourseRequest) (*model.Course, error) {
	g.hit("CreateCourse")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	c := model.Course{ID: uuid.New(), Name: req.Name, Code: req.Code, Credits: req.Credits, Semester: req.Semester}
	if req.DepartmentID != nil {
		id := uuid.MustParse(*req.DepartmentID)
		c.DepartmentID = &id
	}
	g.courses = append([]model.CourseWithDepartment{{Course: c}}, g.courses...)
	return &c, nil
}

func (g *fakeGateway) UpdateCourse(_ context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error) {
	g.hit("UpdateCourse")
	return nil, g.mutateErr
}

func (g *fakeGateway) DeleteCourse(_ context.Context, id uuid.UUID) error {
	g.hit("DeleteCourse")
	return g.mutateErr
}

func (g *fakeGateway) ListNotices(context.Context) ([]model.Notice, error) {
	g.hit("ListNotices")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]model.Notice(nil), g.notices...), nil
}

func (g *fakeGateway) CreateNotice(_ context.Context, req model.NoticeRequest) (*model.Notice, error) {
	g.hit("CreateNotice")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	n := model.Notice{ID: uuid.New(), Title: req.Title, Content: req.Content, Type: req.Type,
		Priority: req.Priority, TargetAudience: req.TargetAudience, IsPublished: req.IsPublished}
	g.notices = append([]model.Notice{n}, g.notices...)
	return &n, nil
}

func (g *fakeGateway) UpdateNotice(_ context.Context, id uuid.UUID, req model.NoticeRequest) (*model.Notice, error) {
	g.hit("UpdateNotice")
	return nil, g.mutateErr
}

func (g *fakeGateway) SetNoticePublished(_ context.Context, id uuid.UUID, published bool) (*model.Notice, error) {
	g.hit("SetNoticePublished")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	for i := range g.notices {
		if g.notices[i].ID == id {
			g.notices[i].IsPublished = published
			return &g.notices[i], nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Code: "NOT_FOUND", Message: "notice not found"}
}

func (g *fakeGateway) DeleteNotice(_ context.Context, id uuid.UUID) error {
	g.hit("DeleteNotice")
	return g.mutateErr
}

func (g *fakeGateway) ListAdmissions(context.Context) ([]model.Admission, error) {
	g.hit("ListAdmissions")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]model.Admission(nil), g.admissions...), nil
}

func (g *fakeGateway) ReviewAdmission(_ context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Admission, error) {
	g.hit("ReviewAdmission")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	for i := range g.admissions {
		if g.admissions[i].ID == id {
			now := time.Now()
			g.admissions[i].ApplicationStatus = status
			g.admissions[i].ReviewedAt = &now
			return &g.admissions[i], nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Code: "NOT_FOUND", Message: "admission not found"}
}

func (g *fakeGateway) DeleteAdmission(_ context.Context, id uuid.UUID) error {
	g.hit("DeleteAdmission")
	return g.mutateErr
}

func (g *fakeGateway) SubmitAdmission(_ context.Context, req model.AdmissionRequest, docs []gateway.Attachment) (*model.Admission, error) {
	g.hit("SubmitAdmission")
	if g.mutateErr != nil {
		return nil, g.mutateErr
	}
	g.submitted = &req
	for _, d := range docs {
		body, _ := io.ReadAll(d.Body)
		g.attachments = append(g.attachments, d.Name+":"+d.ContentType+":"+string(body))
	}
	return &model.Admission{
		ID:                uuid.New(),
		ApplicantName:     req.ApplicantName,
		Email:             req.Email,
		Phone:             req.Phone,
		CourseType:        model.CourseType(req.CourseType),
		MarksPercentage:   req.MarksPercentage,
		ApplicationStatus: model.ApplicationPending,
		SubmittedAt:       time.Now(),
	}, nil
}

// recorder collects notifications and answers confirmations.
type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	confirm   bool
	prompts   int
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	r.successes = append(r.successes, msg)
	r.mu.Unlock()
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	r.errors = append(r.errors, msg)
	r.mu.Unlock()
}

func (r *recorder) Confirm(string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts++
	return r.confirm
}

func (r *recorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

var admin = &model.Profile{ID: uuid.New(), FullName: "Ada Admin", Role: model.RoleAdmin}
