package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
)

type fakeCourseRepo struct {
	repository.CourseRepository
	created *model.Course
	updated *model.Course
	err     error
}

func (f *fakeCourseRepo) Create(_ context.Context, c *model.Course) error {
	if f.err != nil {
		return f.err
	}
	c.ID = uuid.New()
	f.created = c
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *model.Course) error {
	if f.err != nil {
		return f.err
	}
	f.updated = c
	return nil
}

type fakeDepartmentRepo struct {
	repository.DepartmentRepository
	created *model.Department
	delErr  error
}

func (f *fakeDepartmentRepo) Create(_ context.Context, d *model.Department) error {
	d.ID = uuid.New()
	f.created = d
	return nil
}

func (f *fakeDepartmentRepo) Delete(context.Context, uuid.UUID) error { return f.delErr }

type fakeNoticeRepo struct {
	repository.NoticeRepository
	created     *model.Notice
	public      []model.Notice
	publicCalls int
	expired     int64
	expiredAt   time.Time
}

func (f *fakeNoticeRepo) Create(_ context.Context, n *model.Notice) error {
	n.ID = uuid.New()
	f.created = n
	return nil
}

func (f *fakeNoticeRepo) ListPublic(context.Context, time.Time) ([]model.Notice, error) {
	f.publicCalls++
	return f.public, nil
}

func (f *fakeNoticeRepo) UnpublishExpired(_ context.Context, now time.Time) (int64, error) {
	f.expiredAt = now
	return f.expired, nil
}

type fakeAdmissionRepo struct {
	repository.AdmissionRepository
	mu        sync.Mutex
	rows      map[uuid.UUID]*model.Admission
	createErr error
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{rows: map[uuid.UUID]*model.Admission{}}
}

func (f *fakeAdmissionRepo) Create(_ context.Context, a *model.Admission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	a.ApplicationStatus = model.ApplicationPending
	a.SubmittedAt = time.Now()
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAdmissionRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmissionRepo) Review(_ context.Context, id uuid.UUID, status model.ApplicationStatus, reviewer uuid.UUID) (*model.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok || a.ApplicationStatus != model.ApplicationPending {
		return nil, repository.ErrNotFound
	}
	now := time.Now()
	a.ApplicationStatus = status
	a.ReviewedAt = &now
	a.ReviewedBy = &reviewer
	cp := *a
	return &cp, nil
}

func (f *fakeAdmissionRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeSettings struct {
	SettingService
	open bool
	err  error
}

func (f *fakeSettings) AdmissionsOpen(context.Context) (bool, error) { return f.open, f.err }

type fakeStorage struct {
	mu      sync.Mutex
	saved   map[string]string
	deleted []string
	failOn  int
	calls   int
}

func newFakeStorage() *fakeStorage { return &fakeStorage{saved: map[string]string{}} }

func (f *fakeStorage) Save(_ context.Context, key, _ string, body io.ReadSeeker) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return "", io.ErrUnexpectedEOF
	}
	data, _ := io.ReadAll(body)
	url := "/uploads/" + key
	f.saved[url] = string(data)
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	delete(f.saved, url)
	return nil
}

type fakeNotifier struct {
	sent []model.Admission
}

func (f *fakeNotifier) AdmissionSubmitted(_ context.Context, a model.Admission) error {
	f.sent = append(f.sent, a)
	return nil
}
