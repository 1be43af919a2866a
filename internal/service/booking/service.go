package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pitstop/pitstop-api/internal/email"
	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	"github.com/pitstop/pitstop-api/internal/service/availability"
	"github.com/pitstop/pitstop-api/internal/service/discount"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

const defaultCurrency = "EUR"

type Service struct {
	repo        repository.BookingRepository
	paymentRepo repository.PaymentRepository
	outboxRepo  repository.OutboxRepository
	userRepo    repository.UserRepository
	catalogRepo repository.CatalogRepository
	availSvc    *availability.Service
	discountSvc *discount.Service
	emailSvc    email.Service
	logger      *zerolog.Logger
}

func NewService(repo repository.BookingRepository, paymentRepo repository.PaymentRepository, outboxRepo repository.OutboxRepository, userRepo repository.UserRepository, catalogRepo repository.CatalogRepository, availSvc *availability.Service, discountSvc *discount.Service, emailSvc email.Service, logger *zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		availSvc:    availSvc,
		discountSvc: discountSvc,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

// Create books a slot after recomputing availability for the requested
// day. The unique constraint on (service, date, time) is the final
// arbiter for concurrent requests.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.InvalidArgument("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, apperrors.InvalidArgument("time must be HH:MM")
	}

	svc, err := s.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, apperrors.Conflict("service is not available for booking")
	}

	result, err := s.availSvc.ComputeAvailability(ctx, req.ServiceID, date)
	if err != nil {
		return nil, err
	}
	if !result.IsAvailable {
		if result.Reason != "" {
			return nil, apperrors.Conflict(result.Reason)
		}
		return nil, apperrors.Conflict("no slots available on this date")
	}
	if !containsSlot(result.AvailableSlots, req.Time) {
		return nil, apperrors.Conflict("slot is not available")
	}

	amount := svc.Price
	if req.DiscountCode != "" {
		if s.discountSvc == nil {
			return nil, apperrors.InvalidArgument("discount codes are not accepted")
		}
		quote, err := s.discountSvc.Redeem(ctx, req.DiscountCode, amount)
		if err != nil {
			return nil, err
		}
		amount = quote.FinalAmount
	}

	booking := &model.Booking{
		ServiceID:    req.ServiceID,
		CustomerID:   customerID,
		Date:         date,
		Time:         req.Time,
		Status:       model.BookingStatusPending,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VehiclePlate: req.VehiclePlate,
		Notes:        req.Notes,
	}
	booking.ID = uuid.New()

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.createPayment(ctx, booking, amount)
	s.emitEvent(ctx, "booking.created", booking)
	s.sendConfirmation(ctx, booking)
	return booking, nil
}

// createPayment opens the PENDING payment the gateway webhook later
// resolves. A failure here is logged, not surfaced; the gateway flow
// can re-initiate payment for an unpaid booking.
func (s *Service) createPayment(ctx context.Context, booking *model.Booking, amount int64) {
	if s.paymentRepo == nil {
		return
	}

	payment := &model.Payment{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		Amount:     amount,
		Currency:   defaultCurrency,
		Status:     model.PaymentStatusPending,
	}
	payment.ID = uuid.New()

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to create payment for booking")
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	return s.repo.List(ctx, filters)
}

// Cancel releases the slot. Only PENDING and CONFIRMED bookings can be
// cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.Occupies() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel a %s booking", booking.Status))
	}

	booking.Status = model.BookingStatusCancelled
	if reason != "" {
		booking.CancelReason = &reason
	}
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, "booking.cancelled", booking)
	return booking, nil
}

// Complete closes out a CONFIRMED booking after the work is done.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingStatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot complete a %s booking", booking.Status))
	}

	booking.Status = model.BookingStatusCompleted
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, "booking.completed", booking)
	return booking, nil
}

// Reschedule moves a PENDING or CONFIRMED booking to a new slot,
// re-checking availability for the target day.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate, newTime string) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Occupies() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot reschedule a %s booking", booking.Status))
	}

	date, err := time.Parse("2006-01-02", newDate)
	if err != nil {
		return nil, apperrors.InvalidArgument("date must be YYYY-MM-DD")
	}

	result, err := s.availSvc.ComputeAvailability(ctx, booking.ServiceID, date)
	if err != nil {
		return nil, err
	}
	if !containsSlot(result.AvailableSlots, newTime) {
		return nil, apperrors.Conflict("slot is not available")
	}

	booking.Date = date
	booking.Time = newTime
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, "booking.rescheduled", booking)
	return booking, nil
}

// emitEvent records the event in the outbox; the worker relays it to
// the broker. Outbox failures are logged, never surfaced to the caller.
func (s *Service) emitEvent(ctx context.Context, eventType string, booking *model.Booking) {
	payload, err := json.Marshal(booking)
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal booking event")
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to enqueue booking event")
	}
}

// sendConfirmation mails the customer best-effort; a mail failure never
// fails the booking.
func (s *Service) sendConfirmation(ctx context.Context, booking *model.Booking) {
	if s.emailSvc == nil || s.userRepo == nil || s.catalogRepo == nil {
		return
	}

	user, err := s.userRepo.Get(ctx, booking.CustomerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("skipping booking confirmation email")
		return
	}
	svc, err := s.catalogRepo.GetService(ctx, booking.ServiceID)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("skipping booking confirmation email")
		return
	}

	if err := s.emailSvc.SendBookingConfirmation(user.Email, user.Name, svc.Name, booking.Date.Format("2006-01-02"), booking.Time); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to send booking confirmation email")
	}
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
