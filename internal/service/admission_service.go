package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/storage"
)

// MaxAdmissionDocuments caps the files attached to one application.
const MaxAdmissionDocuments = 5

// Sentinel errors for admission documents.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrTooManyFiles        = errors.New("too many files")
)

// Allowed document MIME types.
var allowedDocumentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// AdmissionNotifier is told about every stored application.
type AdmissionNotifier interface {
	AdmissionSubmitted(ctx context.Context, a model.Admission) error
}

// AdmissionService handles the public intake form and admin review.
type AdmissionService interface {
	Submit(ctx context.Context, req model.AdmissionRequest, documents []*multipart.FileHeader) (*model.Admission, error)
	List(ctx context.Context) ([]model.Admission, error)
	Review(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewer uuid.UUID) (*model.Admission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type admissionService struct {
	repo           repository.AdmissionRepository
	settings       SettingService
	storage        storage.DocumentStorage
	notifier       AdmissionNotifier
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(
	repo repository.AdmissionRepository,
	settings SettingService,
	store storage.DocumentStorage,
	notifier AdmissionNotifier,
	maxUploadBytes int64,
	log zerolog.Logger,
) AdmissionService {
	return &admissionService{
		repo:           repo,
		settings:       settings,
		storage:        store,
		notifier:       notifier,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "admission_service").Logger(),
	}
}

// Submit stores an application from the public form. The status is always
// pending and the submission time comes from the database clock.
func (s *admissionService) Submit(ctx context.Context, req model.AdmissionRequest, documents []*multipart.FileHeader) (*model.Admission, error) {
	open, err := s.settings.AdmissionsOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrAdmissionsClosed
	}

	if err := s.checkDocuments(documents); err != nil {
		return nil, err
	}

	a, err := admissionFromRequest(req)
	if err != nil {
		return nil, err
	}

	batch := uuid.New()
	for _, fh := range documents {
		url, err := s.storeDocument(ctx, batch, fh)
		if err != nil {
			s.discard(a.Documents)
			return nil, err
		}
		a.Documents = append(a.Documents, url)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.discard(a.Documents)
		return nil, fmt.Errorf("create admission: %w", err)
	}

	s.log.Info().
		Str("admission_id", a.ID.String()).
		Str("course_type", string(a.CourseType)).
		Int("documents", len(a.Documents)).
		Msg("Admission submitted")

	if s.notifier != nil {
		if err := s.notifier.AdmissionSubmitted(ctx, *a); err != nil {
			s.log.Warn().Err(err).Str("admission_id", a.ID.String()).Msg("Failed to queue confirmation email")
		}
	}
	return a, nil
}

func (s *admissionService) checkDocuments(documents []*multipart.FileHeader) error {
	if len(documents) > MaxAdmissionDocuments {
		return fmt.Errorf("%w: %d (max: %d)", ErrTooManyFiles, len(documents), MaxAdmissionDocuments)
	}
	for _, fh := range documents {
		contentType := fh.Header.Get("Content-Type")
		if _, ok := allowedDocumentTypes[contentType]; !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
		}
		if fh.Size > s.maxUploadBytes {
			return fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, fh.Size, s.maxUploadBytes)
		}
	}
	return nil
}

func (s *admissionService) storeDocument(ctx context.Context, batch uuid.UUID, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	key := fmt.Sprintf("admissions/%s/%s%s", batch, uuid.New(), allowedDocumentTypes[contentType])

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := s.storage.Save(ctx, key, contentType, f)
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return url, nil
}

// discard removes documents of an application that was never stored.
func (s *admissionService) discard(urls []string) {
	for _, url := range urls {
		if err := s.storage.Delete(context.Background(), url); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("Failed to remove orphaned document")
		}
	}
}

func (s *admissionService) List(ctx context.Context) ([]model.Admission, error) {
	return s.repo.List(ctx)
}

func (s *admissionService) Review(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewer uuid.UUID) (*model.Admission, error) {
	if status != model.ApplicationApproved && status != model.ApplicationRejected {
		return nil, ErrInvalidDecision
	}

	a, err := s.repo.Review(ctx, id, status, reviewer)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("review admission %s: %w", id, err)
	}

	// Nothing pending matched: tell a missing row from one already decided.
	if _, getErr := s.repo.GetByID(ctx, id); getErr != nil {
		return nil, fmt.Errorf("review admission %s: %w", id, getErr)
	}
	return nil, ErrAlreadyReviewed
}

func (s *admissionService) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get admission %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admission %s: %w", id, err)
	}
	s.discard(a.Documents)
	return nil
}

func admissionFromRequest(req model.AdmissionRequest) (*model.Admission, error) {
	a := &model.Admission{
		ApplicantName:         strings.TrimSpace(req.ApplicantName),
		Email:                 strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                 strings.TrimSpace(req.Phone),
		Address:               nullIfBlank(&req.Address),
		CourseType:            model.CourseType(strings.ToLower(req.CourseType)),
		PreviousQualification: nullIfBlank(&req.PreviousQualification),
		MarksPercentage:       req.MarksPercentage,
		Documents:             []string{},
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("date_of_birth: %w", err)
		}
		a.DateOfBirth = &dob
	}

	deptID, err := ParseOptionalID(&req.DepartmentID)
	if err != nil {
		return nil, err
	}
	a.DepartmentID = deptID
	return a, nil
}
