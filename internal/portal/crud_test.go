package portal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

func departments(names ...string) []model.Department {
	out := make([]model.Department, len(names))
	for i, n := range names {
		out[i] = model.Department{ID: uuid.New(), Name: n, Code: n[:3]}
	}
	return out
}

func TestControllers_AdminOnly(t *testing.T) {
	g := newFakeGateway()
	student := &model.Profile{ID: uuid.New(), Role: model.RoleStudent}

	_, err := NewDepartmentController(g, student, &recorder{}, &recorder{})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = NewCourseController(g, nil, &recorder{}, &recorder{})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = NewNoticeController(g, &model.Profile{Role: model.RoleFaculty}, &recorder{}, &recorder{})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = NewAdmissionController(g, student, &recorder{}, &recorder{})
	assert.ErrorIs(t, err, ErrAdminOnly)
	assert.Zero(t, g.total())
}

func TestDepartmentController_CreateThenListOnce(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.departments = departments("Commerce")
	n := &recorder{}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	ctrl.OpenCreate()
	ctrl.SetDraft(DepartmentDraft{Name: "Physics", Code: "PHY", Description: "  "})
	require.NoError(t, ctrl.Submit(ctx))

	matches := 0
	for _, d := range ctrl.Items() {
		if d.Code == "PHY" {
			matches++
			assert.Nil(t, d.Description)
		}
	}
	assert.Equal(t, 1, matches)
	assert.Len(t, ctrl.Items(), 2)
	assert.False(t, ctrl.DialogOpen())
	assert.Equal(t, DepartmentDraft{}, ctrl.Draft())
	assert.Equal(t, 1, g.count("CreateDepartment"))
	assert.Equal(t, 2, g.count("ListDepartments"))
	assert.Equal(t, []string{"Department created successfully"}, n.successes)
}

func TestDepartmentController_RequiredFieldsBlockCall(t *testing.T) {
	g := newFakeGateway()
	n := &recorder{}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)

	ctrl.OpenCreate()
	ctrl.SetDraft(DepartmentDraft{Code: "PHY"})
	err = ctrl.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Zero(t, g.count("CreateDepartment"))
	assert.True(t, ctrl.DialogOpen())
}

func TestDepartmentController_MutationFailureKeepsDialog(t *testing.T) {
	g := newFakeGateway()
	g.mutateErr = &gateway.APIError{Status: 409, Code: "CONFLICT", Message: "department code already exists"}
	n := &recorder{}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)

	draft := DepartmentDraft{Name: "Physics", Code: "PHY"}
	ctrl.OpenCreate()
	ctrl.SetDraft(draft)
	require.Error(t, ctrl.Submit(context.Background()))

	assert.True(t, ctrl.DialogOpen())
	assert.Equal(t, draft, ctrl.Draft())
	require.Len(t, n.errors, 1)
	assert.Contains(t, n.errors[0], "department code already exists")
	assert.Zero(t, g.count("ListDepartments"))
}

func TestDepartmentController_Update(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.departments = departments("Science")
	n := &recorder{}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	ctrl.OpenEdit(ctrl.Items()[0])
	require.NotNil(t, ctrl.Editing())
	d := ctrl.Draft()
	assert.Equal(t, "Science", d.Name)
	d.Name = "Natural Science"
	ctrl.SetDraft(d)
	require.NoError(t, ctrl.Submit(ctx))

	assert.Equal(t, 1, g.count("UpdateDepartment"))
	assert.Zero(t, g.count("CreateDepartment"))
	assert.Equal(t, "Natural Science", ctrl.Items()[0].Name)
	assert.Nil(t, ctrl.Editing())
}

func TestDepartmentController_DeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.departments = departments("Science", "Commerce")
	n := &recorder{confirm: false}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))
	before := ctrl.Items()
	calls := g.total()

	require.NoError(t, ctrl.Delete(ctx, before[0].ID))

	assert.Equal(t, 1, n.prompts)
	assert.Equal(t, calls, g.total())
	assert.Equal(t, before, ctrl.Items())

	n.confirm = true
	require.NoError(t, ctrl.Delete(ctx, before[0].ID))
	assert.Equal(t, 1, g.count("DeleteDepartment"))
	assert.Len(t, ctrl.Items(), 1)
}

func TestDepartmentController_DeleteFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.departments = departments("Science")
	n := &recorder{confirm: true}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	g.mutateErr = &gateway.APIError{Status: 409, Code: "DEPENDENCY_EXISTS", Message: "department is still referenced"}
	require.Error(t, ctrl.Delete(ctx, ctrl.Items()[0].ID))
	assert.Len(t, ctrl.Items(), 1)
	assert.Contains(t, n.errors[0], "still referenced")
}

func TestController_FailedListKeepsItems(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.departments = departments("Science", "Commerce")
	n := &recorder{}
	ctrl, err := NewDepartmentController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	g.listErr = errBoom
	require.ErrorIs(t, ctrl.List(ctx), errBoom)
	assert.Len(t, ctrl.Items(), 2)
	assert.False(t, ctrl.Loading())
	assert.Equal(t, 1, n.errorCount())
}

func TestDepartmentFilter_Search(t *testing.T) {
	g := newFakeGateway()
	g.departments = departments("Science", "Social Science", "Commerce")
	ctrl, err := NewDepartmentController(g, admin, &recorder{}, &recorder{})
	require.NoError(t, err)
	require.NoError(t, ctrl.List(context.Background()))

	ctrl.SetFilter(DepartmentFilter{Search: "Sci"}.Predicates()...)

	var names []string
	for _, d := range ctrl.Filtered() {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"Science", "Social Science"}, names)
}

func TestCourseDraft_RejectsNonNumericCredits(t *testing.T) {
	g := newFakeGateway()
	n := &recorder{}
	ctrl, err := NewCourseController(g, admin, n, n)
	require.NoError(t, err)

	ctrl.OpenCreate()
	d := ctrl.Draft()
	assert.Equal(t, "3", d.Credits)
	assert.Equal(t, "1", d.Semester)
	d.Name, d.Code, d.Credits = "Algebra", "MTH101", "abc"
	ctrl.SetDraft(d)

	err = ctrl.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "credits must be a whole number", verr.Fields["credits"])
	assert.Zero(t, g.count("CreateCourse"))
	assert.True(t, ctrl.DialogOpen())
}

func TestCourseDraft_BlankDepartmentIsNull(t *testing.T) {
	req, err := CourseDraft{Name: "Algebra", Code: "MTH101", Credits: "4", Semester: "2", DepartmentID: " "}.build()
	require.NoError(t, err)
	assert.Nil(t, req.DepartmentID)
	assert.Equal(t, 4, req.Credits)
	assert.Equal(t, 2, req.Semester)

	dept := uuid.NewString()
	req, err = CourseDraft{Name: "Algebra", Code: "MTH101", Credits: "4", Semester: "2", DepartmentID: dept}.build()
	require.NoError(t, err)
	require.NotNil(t, req.DepartmentID)
	assert.Equal(t, dept, *req.DepartmentID)
}

func TestCourseFilter_Commutative(t *testing.T) {
	courses := []model.CourseWithDepartment{
		{Course: model.Course{ID: uuid.New(), Name: "Organic Chemistry", Code: "CHM201", Semester: 2}},
		{Course: model.Course{ID: uuid.New(), Name: "Inorganic Chemistry", Code: "CHM101", Semester: 1}},
		{Course: model.Course{ID: uuid.New(), Name: "Statistics", Code: "STA201", Semester: 2}},
	}
	search := CourseFilter{Search: "chem"}.Predicates()
	semester := CourseFilter{Semester: 2}.Predicates()

	a := Apply(Apply(courses, search...), semester...)
	b := Apply(Apply(courses, semester...), search...)
	c := Apply(courses, CourseFilter{Search: "chem", Semester: 2}.Predicates()...)

	require.Len(t, a, 1)
	assert.ElementsMatch(t, a, b)
	assert.ElementsMatch(t, a, c)
	assert.Equal(t, "CHM201", a[0].Code)
}

func TestNoticeController_TogglePublishTwice(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	g.notices = []model.Notice{{ID: uuid.New(), Title: "Exams", Content: "Week 12", Type: model.NoticeTypeExamination}}
	n := &recorder{}
	ctrl, err := NewNoticeController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	require.NoError(t, ctrl.TogglePublish(ctx, ctrl.Items()[0]))
	assert.True(t, ctrl.Items()[0].IsPublished)
	require.NoError(t, ctrl.TogglePublish(ctx, ctrl.Items()[0]))
	assert.False(t, ctrl.Items()[0].IsPublished)

	assert.Equal(t, 2, g.count("SetNoticePublished"))
	assert.Zero(t, g.count("UpdateNotice"))
	assert.Equal(t, []string{"Notice published", "Notice unpublished"}, n.successes)
}

func TestNoticeDraft_Defaults(t *testing.T) {
	g := newFakeGateway()
	n := &recorder{}
	ctrl, err := NewNoticeController(g, admin, n, n)
	require.NoError(t, err)

	ctrl.OpenCreate()
	d := ctrl.Draft()
	assert.Equal(t, model.NoticeTypeGeneral, d.Type)
	assert.Equal(t, "1", d.Priority)
	assert.Equal(t, model.AudienceAll, d.TargetAudience)

	d.Title, d.Content, d.PublishDate = "Holiday", "Campus closed", "2026-12-24"
	ctrl.SetDraft(d)
	require.NoError(t, ctrl.Submit(context.Background()))
	assert.Equal(t, "Holiday", ctrl.Items()[0].Title)

	_, err = NoticeDraft{Title: "x", Content: "y", Type: "gossip", Priority: "1", TargetAudience: model.AudienceAll}.build()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
}

func TestNoticeFilter_Status(t *testing.T) {
	notices := []model.Notice{
		{Title: "Fees due", Type: model.NoticeTypeGeneral, IsPublished: true},
		{Title: "Fees draft", Type: model.NoticeTypeGeneral},
		{Title: "Sports day", Type: model.NoticeTypeEvent, IsPublished: true},
	}

	got := Apply(notices, NoticeFilter{Search: "fees", Status: NoticeStatusDraft}.Predicates()...)
	require.Len(t, got, 1)
	assert.Equal(t, "Fees draft", got[0].Title)

	got = Apply(notices, NoticeFilter{Type: model.NoticeTypeEvent, Status: NoticeStatusAll}.Predicates()...)
	require.Len(t, got, 1)
	assert.Equal(t, "Sports day", got[0].Title)
}

func TestAdmissionController_Review(t *testing.T) {
	ctx := context.Background()
	g := newFakeGateway()
	id := uuid.New()
	g.admissions = []model.Admission{{ID: id, ApplicantName: "Lin", Email: "lin@example.com", ApplicationStatus: model.ApplicationPending}}
	n := &recorder{}
	ctrl, err := NewAdmissionController(g, admin, n, n)
	require.NoError(t, err)
	require.NoError(t, ctrl.List(ctx))

	err = ctrl.Review(ctx, id, model.ApplicationPending)
	require.Error(t, err)
	assert.Zero(t, g.count("ReviewAdmission"))

	require.NoError(t, ctrl.Review(ctx, id, model.ApplicationApproved))
	assert.Equal(t, model.ApplicationApproved, ctrl.Items()[0].ApplicationStatus)
	assert.Equal(t, []string{"Application from Lin approved"}, n.successes)

	ctrl.SetFilter(AdmissionFilter{Status: model.ApplicationPending})
	assert.Empty(t, ctrl.Filtered())
	ctrl.SetFilter(AdmissionFilter{Search: "LIN@"})
	assert.Len(t, ctrl.Filtered(), 1)
}
