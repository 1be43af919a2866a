package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	query := `
		SELECT id, key, value, public, created_at, updated_at, deleted_at
		FROM settings
		WHERE key = $1 AND deleted_at IS NULL
	`
	var setting model.Setting
	err := r.db.GetContext(ctx, &setting, query, key)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("setting")
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *model.Setting) error {
	query := `
		INSERT INTO settings (id, key, value, public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			public = EXCLUDED.public,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
	`
	now := time.Now()
	if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	setting.CreatedAt = now
	setting.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		setting.ID, setting.Key, setting.Value, setting.Public,
		setting.CreatedAt, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	query := `
		UPDATE settings SET deleted_at = $1, updated_at = $1
		WHERE key = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("setting")
	}

	return nil
}

func (r *settingRepository) List(ctx context.Context, publicOnly bool) ([]*model.Setting, error) {
	query := `
		SELECT id, key, value, public, created_at, updated_at, deleted_at
		FROM settings
		WHERE deleted_at IS NULL
	`
	if publicOnly {
		query += " AND public = true"
	}
	query += " ORDER BY key ASC"

	var settings []*model.Setting
	err := r.db.SelectContext(ctx, &settings, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}
