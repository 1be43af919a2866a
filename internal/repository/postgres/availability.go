package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *availabilityRepository) GetBusinessHour(ctx context.Context, weekday int) (*model.BusinessHour, error) {
	query := `
		SELECT id, weekday, open_time, close_time, closed,
			   created_at, updated_at, deleted_at
		FROM business_hours
		WHERE weekday = $1 AND deleted_at IS NULL
	`
	var hour model.BusinessHour
	err := r.db.GetContext(ctx, &hour, query, weekday)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("business hour")
		}
		return nil, fmt.Errorf("failed to get business hour: %w", err)
	}
	return &hour, nil
}

func (r *availabilityRepository) UpsertBusinessHour(ctx context.Context, hour *model.BusinessHour) error {
	query := `
		INSERT INTO business_hours (id, weekday, open_time, close_time, closed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (weekday) DO UPDATE
		SET open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			closed = EXCLUDED.closed,
			updated_at = EXCLUDED.updated_at
	`
	hour.CreatedAt = time.Now()
	hour.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hour.ID, hour.Weekday, hour.OpenTime, hour.CloseTime, hour.Closed,
		hour.CreatedAt, hour.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert business hour: %w", err)
	}
	return nil
}

func (r *availabilityRepository) ListBusinessHours(ctx context.Context) ([]*model.BusinessHour, error) {
	query := `
		SELECT id, weekday, open_time, close_time, closed,
			   created_at, updated_at, deleted_at
		FROM business_hours
		WHERE deleted_at IS NULL
		ORDER BY weekday ASC
	`
	var hours []*model.BusinessHour
	err := r.db.SelectContext(ctx, &hours, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	return hours, nil
}

func (r *availabilityRepository) GetHolidayByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	query := `
		SELECT id, date, name, created_at, updated_at, deleted_at
		FROM holidays
		WHERE date = $1 AND deleted_at IS NULL
	`
	var holiday model.Holiday
	err := r.db.GetContext(ctx, &holiday, query, date)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("holiday")
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}
	return &holiday, nil
}

func (r *availabilityRepository) CreateHoliday(ctx context.Context, holiday *model.Holiday) error {
	query := `
		INSERT INTO holidays (id, date, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	holiday.CreatedAt = time.Now()
	holiday.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		holiday.ID, holiday.Date, holiday.Name, holiday.CreatedAt, holiday.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("holiday already exists for this date")
		}
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (r *availabilityRepository) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM holidays WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("holiday")
	}

	return nil
}

func (r *availabilityRepository) ListHolidays(ctx context.Context) ([]*model.Holiday, error) {
	query := `
		SELECT id, date, name, created_at, updated_at, deleted_at
		FROM holidays
		WHERE deleted_at IS NULL
		ORDER BY date ASC
	`
	var holidays []*model.Holiday
	err := r.db.SelectContext(ctx, &holidays, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}
