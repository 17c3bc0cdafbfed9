package portal

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

func newTestForm(g *fakeGateway, n Notifier, files map[string]string) *AdmissionForm {
	f := NewAdmissionForm(g, n)
	f.open = func(name string) (io.ReadCloser, error) {
		body, ok := files[name]
		if !ok {
			return nil, errors.New("no such file")
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}
	return f
}

func validDraft() AdmissionDraft {
	return AdmissionDraft{
		ApplicantName:   "Priya Sharma",
		Email:           "priya@example.com",
		Phone:           "+91 98765 43210",
		CourseType:      "undergraduate",
		MarksPercentage: "87.5",
		Documents:       []string{"/home/priya/marksheet.pdf"},
	}
}

func TestAdmissionForm_SubmitPending(t *testing.T) {
	g := newFakeGateway()
	n := &recorder{}
	f := newTestForm(g, n, map[string]string{"/home/priya/marksheet.pdf": "%PDF-1.7"})
	f.SetDraft(validDraft())

	a, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.ApplicationPending, a.ApplicationStatus)
	assert.False(t, a.SubmittedAt.IsZero())
	assert.Nil(t, a.ReviewedAt)
	require.NotNil(t, g.submitted.MarksPercentage)
	assert.Equal(t, 87.5, *g.submitted.MarksPercentage)
	assert.Equal(t, []string{"marksheet.pdf:application/pdf:%PDF-1.7"}, g.attachments)
	assert.Equal(t, AdmissionDraft{}, f.Draft())
	assert.Len(t, n.successes, 1)
}

func TestAdmissionForm_ValidationBlocksSubmit(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*AdmissionDraft)
		field string
	}{
		{"missing name", func(d *AdmissionDraft) { d.ApplicantName = "" }, "applicant_name"},
		{"missing course type", func(d *AdmissionDraft) { d.CourseType = "" }, "course_type"},
		{"unknown course type", func(d *AdmissionDraft) { d.CourseType = "diploma" }, "course_type"},
		{"marks not a number", func(d *AdmissionDraft) { d.MarksPercentage = "eighty" }, "marks_percentage"},
		{"marks out of range", func(d *AdmissionDraft) { d.MarksPercentage = "120" }, "marks_percentage"},
		{"marks NaN", func(d *AdmissionDraft) { d.MarksPercentage = "NaN" }, "marks_percentage"},
		{"marks infinite", func(d *AdmissionDraft) { d.MarksPercentage = "-Inf" }, "marks_percentage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newFakeGateway()
			f := newTestForm(g, &recorder{}, nil)
			d := validDraft()
			tc.edit(&d)
			f.SetDraft(d)

			_, err := f.Submit(context.Background())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.Zero(t, g.count("SubmitAdmission"))
			assert.Equal(t, d, f.Draft())
		})
	}
}

func TestAdmissionForm_FailureKeepsDraft(t *testing.T) {
	g := newFakeGateway()
	g.mutateErr = &gateway.APIError{Status: 403, Code: "ADMISSIONS_CLOSED", Message: "admissions are closed"}
	n := &recorder{}
	f := newTestForm(g, n, map[string]string{"/home/priya/marksheet.pdf": "%PDF"})
	f.SetDraft(validDraft())

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, validDraft(), f.Draft())
	require.Len(t, n.errors, 1)
	assert.Contains(t, n.errors[0], "admissions are closed")
}

func TestAdmissionForm_MissingDocument(t *testing.T) {
	g := newFakeGateway()
	f := newTestForm(g, &recorder{}, nil)
	f.SetDraft(validDraft())

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marksheet.pdf")
	assert.Zero(t, g.count("SubmitAdmission"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("a/B.PDF"))
	assert.Equal(t, "application/octet-stream", contentType("notes.unknownext"))
}
