package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// NoticeRepository handles notice data access.
type NoticeRepository interface {
	List(ctx context.Context) ([]model.Notice, error)
	ListPublic(ctx context.Context, now time.Time) ([]model.Notice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	Create(ctx context.Context, n *model.Notice) error
	Update(ctx context.Context, n *model.Notice) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// UnpublishExpired clears is_published on published notices whose
	// expire_date is before now and returns how many were changed.
	UnpublishExpired(ctx context.Context, now time.Time) (int64, error)
	CountPublished(ctx context.Context) (int, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type noticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository creates a new NoticeRepository.
func NewNoticeRepository(pool *pgxpool.Pool) NoticeRepository {
	return &noticeRepository{pool: pool}
}

const noticeColumns = `id, title, content, type, priority, target_audience, is_published,
	publish_date, expire_date, author_id, created_at, updated_at`

func scanNotice(row pgx.Row) (model.Notice, error) {
	var n model.Notice
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.Priority, &n.TargetAudience, &n.IsPublished,
		&n.PublishDate, &n.ExpireDate, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *noticeRepository) collect(rows pgx.Rows) ([]model.Notice, error) {
	defer rows.Close()
	notices := make([]model.Notice, 0)
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *noticeRepository) List(ctx context.Context) ([]model.Notice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+noticeColumns+` FROM notices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *noticeRepository) ListPublic(ctx context.Context, now time.Time) ([]model.Notice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+noticeColumns+` FROM notices
		 WHERE is_published
		   AND (publish_date IS NULL OR publish_date <= $1)
		   AND (expire_date IS NULL OR expire_date > $1)
		 ORDER BY priority DESC, created_at DESC`, now)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *noticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, false)
	}
	return &n, nil
}

func (r *noticeRepository) Create(ctx context.Context, n *model.Notice) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notices (title, content, type, priority, target_audience, is_published, publish_date, expire_date, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		n.Title, n.Content, n.Type, n.Priority, n.TargetAudience, n.IsPublished, n.PublishDate, n.ExpireDate, n.AuthorID,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return mapError(err, false)
}

// Update rewrites the editable fields. author_id is never changed.
func (r *noticeRepository) Update(ctx context.Context, n *model.Notice) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE notices
		 SET title = $1, content = $2, type = $3, priority = $4, target_audience = $5,
		     is_published = $6, publish_date = $7, expire_date = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING author_id, created_at, updated_at`,
		n.Title, n.Content, n.Type, n.Priority, n.TargetAudience, n.IsPublished, n.PublishDate, n.ExpireDate, n.ID,
	).Scan(&n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return mapError(err, false)
}

func (r *noticeRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Notice, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx,
		`UPDATE notices SET is_published = $1, updated_at = NOW() WHERE id = $2
		 RETURNING `+noticeColumns, published, id))
	if err != nil {
		return nil, mapError(err, false)
	}
	return &n, nil
}

func (r *noticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	return requireAffected(tag, mapError(err, true))
}

func (r *noticeRepository) UnpublishExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notices SET is_published = FALSE, updated_at = NOW()
		 WHERE is_published AND expire_date IS NOT NULL AND expire_date <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *noticeRepository) CountPublished(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notices WHERE is_published`).Scan(&n)
	return n, err
}

func (r *noticeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notices WHERE author_id = $1`, authorID).Scan(&n)
	return n, err
}
