package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
)

const publicNoticesTTL = time.Minute

// NoticeService handles notice business logic.
type NoticeService interface {
	List(ctx context.Context) ([]model.Notice, error)
	// ListPublic returns published notices that are live at the current time.
	ListPublic(ctx context.Context) ([]model.Notice, error)
	Create(ctx context.Context, authorID uuid.UUID, req model.NoticeRequest) (*model.Notice, error)
	Update(ctx context.Context, id uuid.UUID, req model.NoticeRequest) (*model.Notice, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// UnpublishExpired takes down every published notice past its expire_date.
	UnpublishExpired(ctx context.Context) (int64, error)
}

type noticeService struct {
	repo repository.NoticeRepository
	// cache holds the public notice board. Nil disables caching.
	cache *redis.Client
	now   func() time.Time
	log   zerolog.Logger
}

// NewNoticeService creates a new NoticeService. rdb may be nil.
func NewNoticeService(repo repository.NoticeRepository, rdb *redis.Client, log zerolog.Logger) NoticeService {
	return &noticeService{
		repo:  repo,
		cache: rdb,
		now:   time.Now,
		log:   log.With().Str("component", "notice_service").Logger(),
	}
}

func (s *noticeService) List(ctx context.Context) ([]model.Notice, error) {
	return s.repo.List(ctx)
}

func (s *noticeService) ListPublic(ctx context.Context) ([]model.Notice, error) {
	key := config.CacheKey.PublicNoticesKey()
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var notices []model.Notice
			if err := json.Unmarshal(raw, &notices); err == nil {
				return notices, nil
			}
		}
	}

	notices, err := s.repo.ListPublic(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(notices); err == nil {
			if err := s.cache.Set(ctx, key, raw, publicNoticesTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Failed to cache public notices")
			}
		}
	}
	return notices, nil
}

func (s *noticeService) Create(ctx context.Context, authorID uuid.UUID, req model.NoticeRequest) (*model.Notice, error) {
	n, err := noticeFromRequest(req)
	if err != nil {
		return nil, err
	}
	n.AuthorID = &authorID
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *noticeService) Update(ctx context.Context, id uuid.UUID, req model.NoticeRequest) (*model.Notice, error) {
	n, err := noticeFromRequest(req)
	if err != nil {
		return nil, err
	}
	n.ID = id
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update notice %s: %w", id, err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *noticeService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error) {
	n, err := s.repo.SetPublished(ctx, id, published)
	if err != nil {
		return nil, fmt.Errorf("publish notice %s: %w", id, err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete notice %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *noticeService) UnpublishExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.UnpublishExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("unpublish expired notices: %w", err)
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

func (s *noticeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, config.CacheKey.PublicNoticesKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate public notices")
	}
}

func noticeFromRequest(req model.NoticeRequest) (*model.Notice, error) {
	if req.PublishDate != nil && req.ExpireDate != nil && !req.ExpireDate.After(*req.PublishDate) {
		return nil, ErrInvalidDateRange
	}
	return &model.Notice{
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		Type:           req.Type,
		Priority:       req.Priority,
		TargetAudience: req.TargetAudience,
		IsPublished:    req.IsPublished,
		PublishDate:    req.PublishDate,
		ExpireDate:     req.ExpireDate,
	}, nil
}
