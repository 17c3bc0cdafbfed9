package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	name, contentType, body string
}

func fileHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="documents"; filename="%s"`, u.name))
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["documents"]
}

func admissionRequest() model.AdmissionRequest {
	marks := 87.5
	return model.AdmissionRequest{
		ApplicantName:   " Priya Nair ",
		Email:           "Priya@Example.com",
		Phone:           "+91 98450 12345",
		DateOfBirth:     "2007-08-14",
		CourseType:      "undergraduate",
		MarksPercentage: &marks,
	}
}

type admissionFixture struct {
	repo     *fakeAdmissionRepo
	store    *fakeStorage
	notifier *fakeNotifier
	settings *fakeSettings
	svc      AdmissionService
}

func newAdmissionFixture() *admissionFixture {
	f := &admissionFixture{
		repo:     newFakeAdmissionRepo(),
		store:    newFakeStorage(),
		notifier: &fakeNotifier{},
		settings: &fakeSettings{open: true},
	}
	f.svc = NewAdmissionService(f.repo, f.settings, f.store, f.notifier, 1024, zerolog.Nop())
	return f
}

func TestAdmissionService_Submit(t *testing.T) {
	f := newAdmissionFixture()
	docs := fileHeaders(t,
		upload{"marksheet.pdf", "application/pdf", "%PDF"},
		upload{"photo.png", "image/png", "PNG"},
	)

	a, err := f.svc.Submit(context.Background(), admissionRequest(), docs)
	require.NoError(t, err)

	assert.Equal(t, model.ApplicationPending, a.ApplicationStatus)
	assert.Nil(t, a.ReviewedAt)
	assert.Equal(t, "Priya Nair", a.ApplicantName)
	assert.Equal(t, "priya@example.com", a.Email)
	require.NotNil(t, a.DateOfBirth)
	assert.Equal(t, "2007-08-14", a.DateOfBirth.Format("2006-01-02"))
	assert.Nil(t, a.DepartmentID)
	assert.Nil(t, a.Address)

	require.Len(t, a.Documents, 2)
	assert.True(t, strings.HasSuffix(a.Documents[0], ".pdf"))
	assert.True(t, strings.HasSuffix(a.Documents[1], ".png"))
	assert.Equal(t, "%PDF", f.store.saved[a.Documents[0]])

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, a.ID, f.notifier.sent[0].ID)
}

func TestAdmissionService_Submit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		open    bool
		uploads []upload
		wantErr error
	}{
		{name: "admissions closed", open: false, wantErr: ErrAdmissionsClosed},
		{name: "unsupported type", open: true, uploads: []upload{{"cv.docx", "application/msword", "x"}}, wantErr: ErrUnsupportedFileType},
		{name: "too large", open: true, uploads: []upload{{"scan.pdf", "application/pdf", strings.Repeat("x", 2048)}}, wantErr: ErrFileTooLarge},
		{
			name: "too many files", open: true, wantErr: ErrTooManyFiles,
			uploads: []upload{
				{"1.pdf", "application/pdf", "1"}, {"2.pdf", "application/pdf", "2"}, {"3.pdf", "application/pdf", "3"},
				{"4.pdf", "application/pdf", "4"}, {"5.pdf", "application/pdf", "5"}, {"6.pdf", "application/pdf", "6"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdmissionFixture()
			f.settings.open = tt.open

			var docs []*multipart.FileHeader
			if len(tt.uploads) > 0 {
				docs = fileHeaders(t, tt.uploads...)
			}

			_, err := f.svc.Submit(context.Background(), admissionRequest(), docs)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.rows)
			assert.Zero(t, f.store.calls)
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestAdmissionService_Submit_CleansUpDocumentsOnFailure(t *testing.T) {
	f := newAdmissionFixture()
	f.repo.createErr = repository.ErrInvalidReference
	docs := fileHeaders(t, upload{"a.pdf", "application/pdf", "a"}, upload{"b.jpg", "image/jpeg", "b"})

	_, err := f.svc.Submit(context.Background(), admissionRequest(), docs)
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
	assert.Len(t, f.store.deleted, 2)
	assert.Empty(t, f.store.saved)
}

func TestAdmissionService_Submit_StorageFailureMidway(t *testing.T) {
	f := newAdmissionFixture()
	f.store.failOn = 2
	docs := fileHeaders(t, upload{"a.pdf", "application/pdf", "a"}, upload{"b.pdf", "application/pdf", "b"})

	_, err := f.svc.Submit(context.Background(), admissionRequest(), docs)
	assert.Error(t, err)
	assert.Len(t, f.store.deleted, 1)
	assert.Empty(t, f.repo.rows)
}

func TestAdmissionService_Review(t *testing.T) {
	f := newAdmissionFixture()
	a, err := f.svc.Submit(context.Background(), admissionRequest(), nil)
	require.NoError(t, err)
	reviewer := uuid.New()

	_, err = f.svc.Review(context.Background(), a.ID, model.ApplicationPending, reviewer)
	assert.ErrorIs(t, err, ErrInvalidDecision)

	got, err := f.svc.Review(context.Background(), a.ID, model.ApplicationApproved, reviewer)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, got.ApplicationStatus)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, reviewer, *got.ReviewedBy)
	assert.NotNil(t, got.ReviewedAt)

	_, err = f.svc.Review(context.Background(), a.ID, model.ApplicationRejected, reviewer)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = f.svc.Review(context.Background(), uuid.New(), model.ApplicationRejected, reviewer)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdmissionService_Delete_RemovesDocuments(t *testing.T) {
	f := newAdmissionFixture()
	a, err := f.svc.Submit(context.Background(), admissionRequest(), fileHeaders(t, upload{"a.pdf", "application/pdf", "a"}))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), a.ID))
	assert.Equal(t, a.Documents, f.store.deleted)
	assert.Empty(t, f.repo.rows)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), a.ID), repository.ErrNotFound)
}
