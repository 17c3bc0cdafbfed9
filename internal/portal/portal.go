// Package portal holds the console's view state: the session resolver, the
// role router, the admin CRUD controllers and the admission intake form.
// Views never reach the API directly; everything goes through Gateway.
package portal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

// Gateway is the API surface the console consumes. *gateway.Client
// implements it.
type Gateway interface {
	GetSession(ctx context.Context) (*model.Session, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	Subscribe(ctx context.Context) (<-chan model.AuthEvent, error)

	Dashboard(ctx context.Context) (*model.Dashboard, error)

	ListDepartments(ctx context.Context) ([]model.Department, error)
	ListPublicDepartments(ctx context.Context) ([]model.Department, error)
	CreateDepartment(ctx context.Context, req model.DepartmentRequest) (*model.Department, error)
	UpdateDepartment(ctx context.Context, id uuid.UUID, req model.DepartmentRequest) (*model.Department, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error

	ListCourses(ctx context.Context) ([]model.CourseWithDepartment, error)
	CreateCourse(ctx context.Context, req model.CourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	ListNotices(ctx context.Context) ([]model.Notice, error)
	CreateNotice(ctx context.Context, req model.NoticeRequest) (*model.Notice, error)
	UpdateNotice(ctx context.Context, id uuid.UUID, req model.NoticeRequest) (*model.Notice, error)
	SetNoticePublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error)
	DeleteNotice(ctx context.Context, id uuid.UUID) error

	ListAdmissions(ctx context.Context) ([]model.Admission, error)
	ReviewAdmission(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Admission, error)
	DeleteAdmission(ctx context.Context, id uuid.UUID) error
	SubmitAdmission(ctx context.Context, req model.AdmissionRequest, documents []gateway.Attachment) (*model.Admission, error)
}

var _ Gateway = (*gateway.Client)(nil)

// Notifier shows short, non-blocking messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ErrAdminOnly is returned when a management panel is opened by a non-admin.
var ErrAdminOnly = errors.New("admin role required")

// ValidationError lists draft fields rejected before any API call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// fieldErrors collects draft problems in field order.
type fieldErrors map[string]string

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = field + " is required"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// message renders err for a notification, preferring the server's text.
func message(action string, err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", action, apiErr.Error())
	}
	return fmt.Sprintf("%s: %v", action, err)
}

func requireAdmin(profile *model.Profile) error {
	if profile == nil || !profile.Role.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}
