package portal

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

// AdmissionDraft is the public intake form as typed. Documents are local
// file paths attached to the application.
type AdmissionDraft struct {
	ApplicantName         string
	Email                 string
	Phone                 string
	DateOfBirth           string
	Address               string
	CourseType            string
	PreviousQualification string
	MarksPercentage       string
	DepartmentID          string
	Documents             []string
}

func (d AdmissionDraft) build() (model.AdmissionRequest, error) {
	errs := fieldErrors{}
	errs.required("applicant_name", d.ApplicantName)
	errs.required("email", d.Email)
	errs.required("phone", d.Phone)
	errs.required("course_type", d.CourseType)
	if ct := strings.TrimSpace(d.CourseType); ct != "" && !model.CourseType(ct).Valid() {
		errs["course_type"] = "course_type must be undergraduate, postgraduate or professional"
	}
	marks := parseOptionalFloat(errs, "marks_percentage", d.MarksPercentage)
	if marks != nil && (*marks < 0 || *marks > 100) {
		errs["marks_percentage"] = "marks_percentage must be between 0 and 100"
	}
	if err := errs.err(); err != nil {
		return model.AdmissionRequest{}, err
	}

	return model.AdmissionRequest{
		ApplicantName:         strings.TrimSpace(d.ApplicantName),
		Email:                 strings.TrimSpace(d.Email),
		Phone:                 strings.TrimSpace(d.Phone),
		DateOfBirth:           strings.TrimSpace(d.DateOfBirth),
		Address:               strings.TrimSpace(d.Address),
		CourseType:            strings.TrimSpace(d.CourseType),
		PreviousQualification: strings.TrimSpace(d.PreviousQualification),
		MarksPercentage:       marks,
		DepartmentID:          strings.TrimSpace(d.DepartmentID),
	}, nil
}

// AdmissionForm submits applications. It needs no session.
type AdmissionForm struct {
	gw       Gateway
	notifier Notifier
	open     func(name string) (io.ReadCloser, error)

	draft AdmissionDraft
}

// NewAdmissionForm creates an empty form that reads documents from disk.
func NewAdmissionForm(gw Gateway, notifier Notifier) *AdmissionForm {
	return &AdmissionForm{
		gw:       gw,
		notifier: notifier,
		open:     func(name string) (io.ReadCloser, error) { return os.Open(name) },
	}
}

func (f *AdmissionForm) Draft() AdmissionDraft     { return f.draft }
func (f *AdmissionForm) SetDraft(d AdmissionDraft) { f.draft = d }

// Submit validates the draft, uploads it with its documents and resets the
// form. On any failure the draft is kept so nothing has to be retyped.
func (f *AdmissionForm) Submit(ctx context.Context) (*model.Admission, error) {
	req, err := f.draft.build()
	if err != nil {
		f.notifier.Error(err.Error())
		return nil, err
	}

	docs := make([]gateway.Attachment, 0, len(f.draft.Documents))
	for _, path := range f.draft.Documents {
		rc, err := f.open(path)
		if err != nil {
			err = fmt.Errorf("open document %s: %w", filepath.Base(path), err)
			f.notifier.Error(err.Error())
			closeAll(docs)
			return nil, err
		}
		docs = append(docs, gateway.Attachment{
			Name:        filepath.Base(path),
			ContentType: contentType(path),
			Body:        rc,
		})
	}
	defer closeAll(docs)

	admission, err := f.gw.SubmitAdmission(ctx, req, docs)
	if err != nil {
		f.notifier.Error(message("Failed to submit application", err))
		return nil, err
	}

	f.draft = AdmissionDraft{}
	f.notifier.Success("Application submitted successfully. We will contact you soon.")
	return admission, nil
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func closeAll(docs []gateway.Attachment) {
	for _, d := range docs {
		if c, ok := d.Body.(io.Closer); ok {
			c.Close()
		}
	}
}
