package report

import (
	"context"
	"time"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
)

const defaultWindow = 30 * 24 * time.Hour

type Service struct {
	repo repository.ReportRepository
}

func NewService(repo repository.ReportRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) BookingsByStatus(ctx context.Context, filters *model.ReportFilters) ([]*model.BookingStatusCount, error) {
	normalize(filters)
	return s.repo.BookingsByStatus(ctx, filters)
}

func (s *Service) RevenueByPeriod(ctx context.Context, filters *model.ReportFilters) ([]*model.RevenuePoint, error) {
	normalize(filters)
	return s.repo.RevenueByPeriod(ctx, filters)
}

func (s *Service) TopServices(ctx context.Context, filters *model.ReportFilters, limit int) ([]*model.ServiceBookingCount, error) {
	normalize(filters)
	return s.repo.TopServices(ctx, filters, limit)
}

// normalize defaults the window to the last 30 days.
func normalize(f *model.ReportFilters) {
	if f.To.IsZero() {
		f.To = time.Now()
	}
	if f.From.IsZero() {
		f.From = f.To.Add(-defaultWindow)
	}
}
