package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, service_id, customer_id, date, time, status,
			vehicle_make, vehicle_model, vehicle_plate, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.ServiceID,
		booking.CustomerID,
		booking.Date,
		booking.Time,
		booking.Status,
		booking.VehicleMake,
		booking.VehicleModel,
		booking.VehiclePlate,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("slot is already booked")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, service_id, customer_id, date, time, status,
			   vehicle_make, vehicle_model, vehicle_plate, notes,
			   cancel_reason, created_at, updated_at, deleted_at
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET date = $1, time = $2, status = $3, notes = $4,
			cancel_reason = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.Date,
		booking.Time,
		booking.Status,
		booking.Notes,
		booking.CancelReason,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("booking")
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("booking")
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, service_id, customer_id, date, time, status,
			   vehicle_make, vehicle_model, vehicle_plate, notes,
			   cancel_reason, created_at, updated_at, deleted_at
		FROM bookings
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filters.ServiceID != uuid.Nil {
		query += fmt.Sprintf(" AND service_id = $%d", argCount)
		args = append(args, filters.ServiceID)
		argCount++
	}

	if filters.CustomerID != uuid.Nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, filters.CustomerID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.DateFrom.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}

	if !filters.DateTo.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	filters.Normalize()
	query += fmt.Sprintf(" ORDER BY date DESC, time DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, service_id, customer_id, date, time, status,
			   vehicle_make, vehicle_model, vehicle_plate, notes,
			   cancel_reason, created_at, updated_at, deleted_at
		FROM bookings
		WHERE service_id = $1
		AND date = $2
		AND status IN ('PENDING', 'CONFIRMED')
		AND deleted_at IS NULL
		ORDER BY time ASC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied slots: %w", err)
	}
	return bookings, nil
}
