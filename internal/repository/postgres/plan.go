package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	query := `
		INSERT INTO plans (
			id, name, slug, price, interval, features, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Name,
		plan.Slug,
		plan.Price,
		plan.Interval,
		plan.Features,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("plan slug already exists")
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	query := `
		SELECT id, name, slug, price, interval, features, active,
			   created_at, updated_at, deleted_at
		FROM plans
		WHERE id = $1 AND deleted_at IS NULL
	`
	var plan model.Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	query := `
		UPDATE plans
		SET name = $1, price = $2, features = $3, active = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.Name, plan.Price, plan.Features, plan.Active, plan.UpdatedAt, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("plan")
	}

	return nil
}

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE plans SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("plan")
	}

	return nil
}

func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]*model.Plan, error) {
	query := `
		SELECT id, name, slug, price, interval, features, active,
			   created_at, updated_at, deleted_at
		FROM plans
		WHERE deleted_at IS NULL
	`
	if activeOnly {
		query += " AND active = true"
	}
	query += " ORDER BY price ASC"

	var plans []*model.Plan
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (r *planRepository) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, plan_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.PlanID, sub.Status, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *planRepository) GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, created_at, updated_at, deleted_at
		FROM subscriptions
		WHERE user_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`
	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, query, userID, model.SubscriptionStatusActive)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("subscription")
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &sub, nil
}

func (r *planRepository) UpdateSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		UPDATE subscriptions SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	sub.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, sub.Status, sub.UpdatedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("subscription")
	}

	return nil
}
