package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/config"
	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

const (
	ReasonHoliday = "Holiday"
	ReasonClosed  = "Business is closed on this day"
)

// slotLayout is the wire format for times of day. Comparisons parse both
// sides against the same reference day so only the time component counts.
const slotLayout = "15:04"

type Service struct {
	availRepo   repository.AvailabilityRepository
	bookingRepo repository.BookingRepository
	catalogRepo repository.CatalogRepository
	cfg         config.AvailabilityConfig
}

func NewService(availRepo repository.AvailabilityRepository, bookingRepo repository.BookingRepository, catalogRepo repository.CatalogRepository, cfg config.AvailabilityConfig) *Service {
	if cfg.SlotIntervalMinutes <= 0 {
		cfg.SlotIntervalMinutes = 30
	}
	return &Service{
		availRepo:   availRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		cfg:         cfg,
	}
}

// ComputeAvailability derives the bookable slots for a service on a
// date. It persists nothing; every call recomputes from business hours,
// holidays and live bookings.
func (s *Service) ComputeAvailability(ctx context.Context, serviceID uuid.UUID, date time.Time) (*model.AvailabilityResult, error) {
	if _, err := s.catalogRepo.GetService(ctx, serviceID); err != nil {
		return nil, err
	}

	date = normalizeDate(date)

	// A holiday blocks the whole day before business hours are even
	// consulted.
	holiday, err := s.availRepo.GetHolidayByDate(ctx, date)
	if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday != nil {
		return &model.AvailabilityResult{
			IsAvailable:    false,
			AvailableSlots: []string{},
			Reason:         ReasonHoliday,
		}, nil
	}

	hour, err := s.availRepo.GetBusinessHour(ctx, s.weekdayIndex(date))
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return &model.AvailabilityResult{
				IsAvailable:    false,
				AvailableSlots: []string{},
				Reason:         ReasonClosed,
			}, nil
		}
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}
	if hour.Closed {
		return &model.AvailabilityResult{
			IsAvailable:    false,
			AvailableSlots: []string{},
			Reason:         ReasonClosed,
		}, nil
	}

	bookings, err := s.bookingRepo.ListOccupied(ctx, serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	occupied := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Status.Occupies() {
			occupied[b.Time] = struct{}{}
		}
	}

	slots, err := GenerateSlots(hour.OpenTime, hour.CloseTime, s.interval(), occupied)
	if err != nil {
		return nil, err
	}

	return &model.AvailabilityResult{
		IsAvailable:    len(slots) > 0,
		AvailableSlots: slots,
		BusinessHours: &model.BusinessHoursWindow{
			Open:  hour.OpenTime,
			Close: hour.CloseTime,
		},
	}, nil
}

// GenerateSlots produces candidate times stepping from open by interval,
// stopping strictly before close. Slots present in occupied are skipped.
// An open time at or past close yields an empty list, not an error.
func GenerateSlots(open, close string, interval time.Duration, occupied map[string]struct{}) ([]string, error) {
	openT, err := time.Parse(slotLayout, open)
	if err != nil {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid open time %q", open))
	}
	closeT, err := time.Parse(slotLayout, close)
	if err != nil {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid close time %q", close))
	}

	slots := []string{}
	for t := openT; t.Before(closeT); t = t.Add(interval) {
		slot := t.Format(slotLayout)
		if _, taken := occupied[slot]; taken {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *Service) UpsertBusinessHour(ctx context.Context, req *model.UpsertBusinessHourRequest) (*model.BusinessHour, error) {
	if err := validateTimeOfDay(req.OpenTime); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay(req.CloseTime); err != nil {
		return nil, err
	}

	hour := &model.BusinessHour{
		Weekday:   req.Weekday,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Closed:    req.Closed,
	}
	hour.ID = uuid.New()

	if err := s.availRepo.UpsertBusinessHour(ctx, hour); err != nil {
		return nil, fmt.Errorf("failed to upsert business hour: %w", err)
	}
	return hour, nil
}

func (s *Service) ListBusinessHours(ctx context.Context) ([]*model.BusinessHour, error) {
	return s.availRepo.ListBusinessHours(ctx)
}

func (s *Service) CreateHoliday(ctx context.Context, req *model.CreateHolidayRequest) (*model.Holiday, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.InvalidArgument("date must be YYYY-MM-DD")
	}

	holiday := &model.Holiday{
		Date: date,
		Name: req.Name,
	}
	holiday.ID = uuid.New()

	if err := s.availRepo.CreateHoliday(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return s.availRepo.DeleteHoliday(ctx, id)
}

func (s *Service) ListHolidays(ctx context.Context) ([]*model.Holiday, error) {
	return s.availRepo.ListHolidays(ctx)
}

func (s *Service) interval() time.Duration {
	return time.Duration(s.cfg.SlotIntervalMinutes) * time.Minute
}

// weekdayIndex maps the date's weekday onto the configured convention.
// With WeekStart 0 the index equals time.Weekday (0 = Sunday).
func (s *Service) weekdayIndex(date time.Time) int {
	return (int(date.Weekday()) - s.cfg.WeekStart + 7) % 7
}

func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func validateTimeOfDay(v string) error {
	if _, err := time.Parse(slotLayout, v); err != nil {
		return apperrors.InvalidArgument(fmt.Sprintf("invalid time of day %q, expected HH:MM", v))
	}
	return nil
}
