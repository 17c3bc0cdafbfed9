package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stcolombus/campus-portal/internal/model"
)

// SettingRepository handles app_settings key-value access.
type SettingRepository interface {
	GetAll(ctx context.Context) ([]model.AppSetting, error)
	GetByKey(ctx context.Context, key string) (*model.AppSetting, error)
	UpsertMany(ctx context.Context, settings map[string]string) error
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.AppSetting
	for rows.Next() {
		var s model.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	s := &model.AppSetting{}
	err := r.pool.QueryRow(ctx, `SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err, false)
	}
	return s, nil
}

// UpsertMany writes all settings in one transaction.
func (r *settingRepository) UpsertMany(ctx context.Context, settings map[string]string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range settings {
			batch.Queue(
				`INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
				key, value)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
