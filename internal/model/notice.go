package model

import (
	"time"

	"github.com/google/uuid"
)

// Notice is an announcement published to a target audience.
type Notice struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Type           NoticeType     `json:"type"`
	Priority       NoticePriority `json:"priority"`
	TargetAudience Audience       `json:"target_audience"`
	IsPublished    bool           `json:"is_published"`
	PublishDate    *time.Time     `json:"publish_date,omitempty"`
	ExpireDate     *time.Time     `json:"expire_date,omitempty"`
	AuthorID       *uuid.UUID     `json:"author_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NoticeRequest is the payload for creating or updating a notice.
type NoticeRequest struct {
	Title          string         `json:"title" binding:"required,min=2,max=200"`
	Content        string         `json:"content" binding:"required"`
	Type           NoticeType     `json:"type" binding:"required,notice_type"`
	Priority       NoticePriority `json:"priority" binding:"required,min=1,max=3"`
	TargetAudience Audience       `json:"target_audience" binding:"required,audience"`
	IsPublished    bool           `json:"is_published"`
	PublishDate    *time.Time     `json:"publish_date"`
	ExpireDate     *time.Time     `json:"expire_date"`
}

// PublishRequest sets only the publication flag of a notice.
type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}
