package portal

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
)

// NoticeDraft is the notice form as typed. Dates use YYYY-MM-DD.
type NoticeDraft struct {
	Title          string
	Content        string
	Type           model.NoticeType
	Priority       string
	TargetAudience model.Audience
	IsPublished    bool
	PublishDate    string
	ExpireDate     string
}

const dateLayout = "2006-01-02"

func (d NoticeDraft) build() (model.NoticeRequest, error) {
	errs := fieldErrors{}
	errs.required("title", d.Title)
	errs.required("content", d.Content)
	priority := parseInt(errs, "priority", d.Priority, true)
	if !d.Type.Valid() {
		errs["type"] = "type must be one of the notice types"
	}
	if !d.TargetAudience.Valid() {
		errs["target_audience"] = "target_audience must be one of the audiences"
	}
	publish := parseDate(errs, "publish_date", d.PublishDate)
	expire := parseDate(errs, "expire_date", d.ExpireDate)
	if err := errs.err(); err != nil {
		return model.NoticeRequest{}, err
	}

	return model.NoticeRequest{
		Title:          strings.TrimSpace(d.Title),
		Content:        strings.TrimSpace(d.Content),
		Type:           d.Type,
		Priority:       model.NoticePriority(priority),
		TargetAudience: d.TargetAudience,
		IsPublished:    d.IsPublished,
		PublishDate:    publish,
		ExpireDate:     expire,
	}, nil
}

func parseDate(errs fieldErrors, field, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		errs[field] = field + " must be a date (YYYY-MM-DD)"
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(dateLayout)
}

// NoticeStatus filters notices by publication state.
type NoticeStatus string

const (
	NoticeStatusAll       NoticeStatus = "all"
	NoticeStatusPublished NoticeStatus = "published"
	NoticeStatusDraft     NoticeStatus = "draft"
)

// NoticeFilter narrows the notice list by title or content, type and status.
// An empty Type means any.
type NoticeFilter struct {
	Search string
	Type   model.NoticeType
	Status NoticeStatus
}

func (f NoticeFilter) Predicates() []Predicate[model.Notice] {
	preds := []Predicate[model.Notice]{
		func(n model.Notice) bool { return containsFold(f.Search, n.Title, n.Content) },
	}
	if f.Type != "" {
		preds = append(preds, func(n model.Notice) bool { return n.Type == f.Type })
	}
	switch f.Status {
	case NoticeStatusPublished:
		preds = append(preds, func(n model.Notice) bool { return n.IsPublished })
	case NoticeStatusDraft:
		preds = append(preds, func(n model.Notice) bool { return !n.IsPublished })
	}
	return preds
}

type noticeStore struct{ gw Gateway }

func (s noticeStore) List(ctx context.Context) ([]model.Notice, error) {
	return s.gw.ListNotices(ctx)
}

func (s noticeStore) Create(ctx context.Context, req model.NoticeRequest) error {
	_, err := s.gw.CreateNotice(ctx, req)
	return err
}

func (s noticeStore) Update(ctx context.Context, id uuid.UUID, req model.NoticeRequest) error {
	_, err := s.gw.UpdateNotice(ctx, id, req)
	return err
}

func (s noticeStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.gw.DeleteNotice(ctx, id)
}

// NoticeController is the notice panel: the shared CRUD flow plus
// publish toggling.
type NoticeController struct {
	*Controller[model.Notice, NoticeDraft, model.NoticeRequest]
	gw Gateway
}

// NewNoticeController opens the notice panel for an admin profile.
func NewNoticeController(gw Gateway, profile *model.Profile, n Notifier, c Confirmer) (*NoticeController, error) {
	if err := requireAdmin(profile); err != nil {
		return nil, err
	}
	ctrl := NewController(Config[model.Notice, NoticeDraft, model.NoticeRequest]{
		Noun:  "Notice",
		Store: noticeStore{gw},
		ID:    func(n model.Notice) uuid.UUID { return n.ID },
		Build: NoticeDraft.build,
		Edit: func(n model.Notice) NoticeDraft {
			return NoticeDraft{
				Title:          n.Title,
				Content:        n.Content,
				Type:           n.Type,
				Priority:       strconv.Itoa(int(n.Priority)),
				TargetAudience: n.TargetAudience,
				IsPublished:    n.IsPublished,
				PublishDate:    formatDate(n.PublishDate),
				ExpireDate:     formatDate(n.ExpireDate),
			}
		},
		Blank: func() NoticeDraft {
			return NoticeDraft{
				Type:           model.NoticeTypeGeneral,
				Priority:       strconv.Itoa(int(model.PriorityLow)),
				TargetAudience: model.AudienceAll,
			}
		},
	}, n, c)
	return &NoticeController{Controller: ctrl, gw: gw}, nil
}

// TogglePublish flips only the publication flag of item, independent of
// the edit dialog, then reloads the list.
func (c *NoticeController) TogglePublish(ctx context.Context, item model.Notice) error {
	published := !item.IsPublished
	if _, err := c.gw.SetNoticePublished(ctx, item.ID, published); err != nil {
		return c.fail("Failed to update notice status", err)
	}

	if published {
		c.notifier.Success("Notice published")
	} else {
		c.notifier.Success("Notice unpublished")
	}
	return c.List(ctx)
}
