package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *discountRepository) Create(ctx context.Context, discount *model.Discount) error {
	query := `
		INSERT INTO discounts (
			id, code, type, value, valid_from, valid_to, max_uses,
			used_count, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	discount.CreatedAt = time.Now()
	discount.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		discount.ID,
		discount.Code,
		discount.Type,
		discount.Value,
		discount.ValidFrom,
		discount.ValidTo,
		discount.MaxUses,
		discount.UsedCount,
		discount.Active,
		discount.CreatedAt,
		discount.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("discount code already exists")
		}
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

func (r *discountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	query := `
		SELECT id, code, type, value, valid_from, valid_to, max_uses,
			   used_count, active, created_at, updated_at, deleted_at
		FROM discounts
		WHERE id = $1 AND deleted_at IS NULL
	`
	var discount model.Discount
	err := r.db.GetContext(ctx, &discount, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("discount")
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return &discount, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	query := `
		SELECT id, code, type, value, valid_from, valid_to, max_uses,
			   used_count, active, created_at, updated_at, deleted_at
		FROM discounts
		WHERE code = $1 AND deleted_at IS NULL
	`
	var discount model.Discount
	err := r.db.GetContext(ctx, &discount, query, code)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("discount")
		}
		return nil, fmt.Errorf("failed to get discount by code: %w", err)
	}
	return &discount, nil
}

func (r *discountRepository) Update(ctx context.Context, discount *model.Discount) error {
	query := `
		UPDATE discounts
		SET value = $1, valid_from = $2, valid_to = $3, max_uses = $4,
			active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	discount.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		discount.Value,
		discount.ValidFrom,
		discount.ValidTo,
		discount.MaxUses,
		discount.Active,
		discount.UpdatedAt,
		discount.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("discount")
	}

	return nil
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE discounts SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("discount")
	}

	return nil
}

func (r *discountRepository) List(ctx context.Context) ([]*model.Discount, error) {
	query := `
		SELECT id, code, type, value, valid_from, valid_to, max_uses,
			   used_count, active, created_at, updated_at, deleted_at
		FROM discounts
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var discounts []*model.Discount
	err := r.db.SelectContext(ctx, &discounts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

func (r *discountRepository) IncrementUse(ctx context.Context, id uuid.UUID) error {
	// Guarded increment so concurrent uses cannot exceed max_uses.
	query := `
		UPDATE discounts
		SET used_count = used_count + 1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		AND (max_uses = 0 OR used_count < max_uses)
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment discount use: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.Conflict("discount code is exhausted")
	}

	return nil
}
