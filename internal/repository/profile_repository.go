package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// ProfileRepository handles profile and credential data access.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, email, full_name, role, avatar_url, phone, password_hash, created_at, updated_at`

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.AvatarURL, &p.Phone, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err, false)
	}
	return p, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.AvatarURL, &p.Phone, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err, false)
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (email, full_name, role, avatar_url, phone, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.FullName, p.Role, p.AvatarURL, p.Phone, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err, false)
}

func (r *profileRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	))
}
