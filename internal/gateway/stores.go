package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
)

// Dashboard returns the dashboard of the signed-in user's role.
func (c *Client) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var res struct {
		Dashboard model.Dashboard `json:"dashboard"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/dashboard", nil, &res); err != nil {
		return nil, err
	}
	return &res.Dashboard, nil
}

// Stats returns the institution counters.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var res struct {
		Stats model.Stats `json:"stats"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res.Stats, nil
}

// ─── Departments ────────────────────────────────────────────────────

func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var res struct {
		Departments []model.Department `json:"departments"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/departments", nil, &res)
	return res.Departments, err
}

// ListPublicDepartments serves the intake form, which needs no session.
func (c *Client) ListPublicDepartments(ctx context.Context) ([]model.Department, error) {
	var res struct {
		Departments []model.Department `json:"departments"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/public/departments", nil, &res)
	return res.Departments, err
}

func (c *Client) CreateDepartment(ctx context.Context, req model.DepartmentRequest) (*model.Department, error) {
	var res struct {
		Department model.Department `json:"department"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/admin/departments", req, &res); err != nil {
		return nil, err
	}
	return &res.Department, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id uuid.UUID, req model.DepartmentRequest) (*model.Department, error) {
	var res struct {
		Department model.Department `json:"department"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/admin/departments/"+id.String(), req, &res); err != nil {
		return nil, err
	}
	return &res.Department, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/admin/departments/"+id.String(), nil, nil)
}

// ─── Courses ────────────────────────────────────────────────────────

func (c *Client) ListCourses(ctx context.Context) ([]model.CourseWithDepartment, error) {
	var res struct {
		Courses []model.CourseWithDepartment `json:"courses"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/courses", nil, &res)
	return res.Courses, err
}

func (c *Client) CreateCourse(ctx context.Context, req model.CourseRequest) (*model.Course, error) {
	var res struct {
		Course model.Course `json:"course"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/admin/courses", req, &res); err != nil {
		return nil, err
	}
	return &res.Course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error) {
	var res struct {
		Course model.Course `json:"course"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/admin/courses/"+id.String(), req, &res); err != nil {
		return nil, err
	}
	return &res.Course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/admin/courses/"+id.String(), nil, nil)
}

// ─── Notices ────────────────────────────────────────────────────────

func (c *Client) ListNotices(ctx context.Context) ([]model.Notice, error) {
	var res struct {
		Notices []model.Notice `json:"notices"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/notices", nil, &res)
	return res.Notices, err
}

func (c *Client) CreateNotice(ctx context.Context, req model.NoticeRequest) (*model.Notice, error) {
	var res struct {
		Notice model.Notice `json:"notice"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/admin/notices", req, &res); err != nil {
		return nil, err
	}
	return &res.Notice, nil
}

func (c *Client) UpdateNotice(ctx context.Context, id uuid.UUID, req model.NoticeRequest) (*model.Notice, error) {
	var res struct {
		Notice model.Notice `json:"notice"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/admin/notices/"+id.String(), req, &res); err != nil {
		return nil, err
	}
	return &res.Notice, nil
}

// SetNoticePublished changes only the publication flag of a notice.
func (c *Client) SetNoticePublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error) {
	var res struct {
		Notice model.Notice `json:"notice"`
	}
	err := c.doJSON(ctx, http.MethodPatch, "/api/v1/admin/notices/"+id.String()+"/publish",
		model.PublishRequest{IsPublished: &published}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Notice, nil
}

func (c *Client) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/admin/notices/"+id.String(), nil, nil)
}

// ─── Admissions ─────────────────────────────────────────────────────

func (c *Client) ListAdmissions(ctx context.Context) ([]model.Admission, error) {
	var res struct {
		Admissions []model.Admission `json:"admissions"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/admissions", nil, &res)
	return res.Admissions, err
}

func (c *Client) ReviewAdmission(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Admission, error) {
	var res struct {
		Admission model.Admission `json:"admission"`
	}
	err := c.doJSON(ctx, http.MethodPatch, "/api/v1/admin/admissions/"+id.String()+"/review",
		model.ReviewRequest{Status: status}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Admission, nil
}

func (c *Client) DeleteAdmission(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/admin/admissions/"+id.String(), nil, nil)
}

// Attachment is one document sent with an application.
type Attachment struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// SubmitAdmission posts the public intake form as multipart/form-data.
func (c *Client) SubmitAdmission(ctx context.Context, req model.AdmissionRequest, documents []Attachment) (*model.Admission, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"applicant_name", req.ApplicantName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"date_of_birth", req.DateOfBirth},
		{"address", req.Address},
		{"course_type", req.CourseType},
		{"previous_qualification", req.PreviousQualification},
		{"department_id", req.DepartmentID},
	}
	if req.MarksPercentage != nil {
		fields = append(fields, struct{ name, value string }{
			"marks_percentage", strconv.FormatFloat(*req.MarksPercentage, 'f', -1, 64),
		})
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	for _, doc := range documents {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="documents"; filename=%q`, doc.Name))
		h.Set("Content-Type", doc.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", doc.Name, err)
		}
		if _, err := io.Copy(part, doc.Body); err != nil {
			return nil, fmt.Errorf("copy %s: %w", doc.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var res struct {
		Admission model.Admission `json:"admission"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/public/admissions", mw.FormDataContentType(), &buf, &res); err != nil {
		return nil, err
	}
	return &res.Admission, nil
}

// ─── Settings ───────────────────────────────────────────────────────

// PublicSettings returns the site settings shown on public pages.
func (c *Client) PublicSettings(ctx context.Context) (map[string]string, error) {
	var res struct {
		Settings map[string]string `json:"settings"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/public/settings", nil, &res)
	return res.Settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, settings map[string]string) (map[string]string, error) {
	var res struct {
		Settings map[string]string `json:"settings"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/api/v1/admin/settings",
		model.UpdateSettingsRequest{Settings: settings}, &res)
	return res.Settings, err
}
