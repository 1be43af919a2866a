package postgres

import (
	"context"
	"fmt"

	"github.com/pitstop/pitstop-api/internal/model"
)

func (r *reportRepository) BookingsByStatus(ctx context.Context, filters *model.ReportFilters) ([]*model.BookingStatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM bookings
		WHERE deleted_at IS NULL
		AND date >= $1 AND date <= $2
		GROUP BY status
		ORDER BY status
	`
	var counts []*model.BookingStatusCount
	err := r.db.SelectContext(ctx, &counts, query, filters.From, filters.To)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) RevenueByPeriod(ctx context.Context, filters *model.ReportFilters) ([]*model.RevenuePoint, error) {
	// Revenue counts completed payments only, bucketed by day.
	query := `
		SELECT date_trunc('day', p.created_at) AS period, SUM(p.amount) AS revenue
		FROM payments p
		WHERE p.deleted_at IS NULL
		AND p.status = 'completed'
		AND p.created_at >= $1 AND p.created_at <= $2
		GROUP BY period
		ORDER BY period ASC
	`
	var points []*model.RevenuePoint
	err := r.db.SelectContext(ctx, &points, query, filters.From, filters.To)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return points, nil
}

func (r *reportRepository) TopServices(ctx context.Context, filters *model.ReportFilters, limit int) ([]*model.ServiceBookingCount, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT b.service_id, s.name AS service_name, COUNT(*) AS count
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.deleted_at IS NULL
		AND b.date >= $1 AND b.date <= $2
		GROUP BY b.service_id, s.name
		ORDER BY count DESC
		LIMIT $3
	`
	var counts []*model.ServiceBookingCount
	err := r.db.SelectContext(ctx, &counts, query, filters.From, filters.To, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank services: %w", err)
	}
	return counts, nil
}
