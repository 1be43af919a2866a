package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/config"
	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/service/availability"
	"github.com/pitstop/pitstop-api/internal/service/discount"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type fakeBookingRepo struct {
	bookings []*model.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	for _, existing := range f.bookings {
		if existing.ServiceID == b.ServiceID && existing.Date.Equal(b.Date) &&
			existing.Time == b.Time && existing.Status.Occupies() {
			return apperrors.Conflict("slot is already booked")
		}
	}
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperrors.NotFound("booking")
}

func (f *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	for i, existing := range f.bookings {
		if existing.ID == b.ID {
			f.bookings[i] = b
			return nil
		}
	}
	return apperrors.NotFound("booking")
}

func (f *fakeBookingRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeBookingRepo) List(_ context.Context, _ *model.BookingFilters) ([]*model.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) ListOccupied(_ context.Context, serviceID uuid.UUID, date time.Time) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.ServiceID == serviceID && b.Date.Equal(date) && b.Status.Occupies() {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeAvailabilityRepo struct {
	hours map[int]*model.BusinessHour
}

func (f *fakeAvailabilityRepo) GetBusinessHour(_ context.Context, weekday int) (*model.BusinessHour, error) {
	h, ok := f.hours[weekday]
	if !ok {
		return nil, apperrors.NotFound("business hour")
	}
	return h, nil
}

func (f *fakeAvailabilityRepo) UpsertBusinessHour(_ context.Context, hour *model.BusinessHour) error {
	f.hours[hour.Weekday] = hour
	return nil
}

func (f *fakeAvailabilityRepo) ListBusinessHours(_ context.Context) ([]*model.BusinessHour, error) {
	return nil, nil
}

func (f *fakeAvailabilityRepo) GetHolidayByDate(_ context.Context, _ time.Time) (*model.Holiday, error) {
	return nil, apperrors.NotFound("holiday")
}

func (f *fakeAvailabilityRepo) CreateHoliday(_ context.Context, _ *model.Holiday) error { return nil }
func (f *fakeAvailabilityRepo) DeleteHoliday(_ context.Context, _ uuid.UUID) error      { return nil }
func (f *fakeAvailabilityRepo) ListHolidays(_ context.Context) ([]*model.Holiday, error) {
	return nil, nil
}

type fakeCatalogRepo struct {
	services map[uuid.UUID]*model.Service
}

func (f *fakeCatalogRepo) CreateService(_ context.Context, svc *model.Service) error {
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, apperrors.NotFoundMsg("Service not found")
	}
	return svc, nil
}

func (f *fakeCatalogRepo) GetServiceBySlug(_ context.Context, _ string) (*model.Service, error) {
	return nil, apperrors.NotFoundMsg("Service not found")
}

func (f *fakeCatalogRepo) UpdateService(_ context.Context, _ *model.Service) error { return nil }
func (f *fakeCatalogRepo) DeleteService(_ context.Context, _ uuid.UUID) error      { return nil }
func (f *fakeCatalogRepo) ListServices(_ context.Context, _ *model.ServiceFilters) ([]*model.Service, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) CreateCategory(_ context.Context, _ *model.Category) error { return nil }
func (f *fakeCatalogRepo) GetCategory(_ context.Context, _ uuid.UUID) (*model.Category, error) {
	return nil, apperrors.NotFound("category")
}
func (f *fakeCatalogRepo) UpdateCategory(_ context.Context, _ *model.Category) error { return nil }
func (f *fakeCatalogRepo) DeleteCategory(_ context.Context, _ uuid.UUID) error       { return nil }
func (f *fakeCatalogRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) CountServicesInCategory(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeCatalogRepo) CreateTag(_ context.Context, _ *model.Tag) error      { return nil }
func (f *fakeCatalogRepo) DeleteTag(_ context.Context, _ uuid.UUID) error       { return nil }
func (f *fakeCatalogRepo) ListTags(_ context.Context) ([]*model.Tag, error)     { return nil, nil }
func (f *fakeCatalogRepo) TagService(_ context.Context, _, _ uuid.UUID) error   { return nil }
func (f *fakeCatalogRepo) UntagService(_ context.Context, _, _ uuid.UUID) error { return nil }
func (f *fakeCatalogRepo) ListServiceTags(_ context.Context, _ uuid.UUID) ([]*model.Tag, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	created []*model.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	f.created = append(f.created, p)
	return nil
}
func (f *fakePaymentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Payment, error) {
	return nil, apperrors.NotFound("payment")
}
func (f *fakePaymentRepo) GetByGatewayRef(_ context.Context, _ string) (*model.Payment, error) {
	return nil, apperrors.NotFound("payment")
}
func (f *fakePaymentRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Payment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) MarkCompleted(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakePaymentRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error    { return nil }
func (f *fakePaymentRepo) MarkRefunded(_ context.Context, _ uuid.UUID, _ string, _ int64) error {
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, _ *sqlx.Tx, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ *sqlx.Tx, _ uuid.UUID, _ model.OutboxStatus, _ *string, _ *time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) BeginTx(_ context.Context) (*sqlx.Tx, error) { return nil, nil }

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeDiscountRepo struct {
	byID map[uuid.UUID]*model.Discount
}

func (f *fakeDiscountRepo) Create(_ context.Context, d *model.Discount) error {
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDiscountRepo) Get(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("discount")
	}
	return d, nil
}

func (f *fakeDiscountRepo) GetByCode(_ context.Context, code string) (*model.Discount, error) {
	for _, d := range f.byID {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("discount")
}

func (f *fakeDiscountRepo) Update(_ context.Context, d *model.Discount) error {
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDiscountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeDiscountRepo) List(_ context.Context) ([]*model.Discount, error) { return nil, nil }

func (f *fakeDiscountRepo) IncrementUse(_ context.Context, id uuid.UUID) error {
	d, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("discount")
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return apperrors.Conflict("discount code is exhausted")
	}
	d.UsedCount++
	return nil
}

type fixture struct {
	svc       *Service
	repo      *fakeBookingRepo
	catalog   *fakeCatalogRepo
	payments  *fakePaymentRepo
	discounts *fakeDiscountRepo
	outbox    *fakeOutboxRepo
	serviceID uuid.UUID
}

// 2026-09-07 is a Monday.
const mondayDate = "2026-09-07"

const oilChangePrice = int64(5000)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookingRepo := &fakeBookingRepo{}
	availRepo := &fakeAvailabilityRepo{hours: make(map[int]*model.BusinessHour)}
	availRepo.hours[1] = &model.BusinessHour{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"}
	catalog := &fakeCatalogRepo{services: make(map[uuid.UUID]*model.Service)}

	svcModel := &model.Service{Name: "Oil Change", Slug: "oil-change", Price: oilChangePrice, Active: true}
	svcModel.ID = uuid.New()
	require.NoError(t, catalog.CreateService(context.Background(), svcModel))

	availSvc := availability.NewService(availRepo, bookingRepo, catalog,
		config.AvailabilityConfig{SlotIntervalMinutes: 30, WeekStart: 0})

	payments := &fakePaymentRepo{}
	discounts := &fakeDiscountRepo{byID: make(map[uuid.UUID]*model.Discount)}
	outbox := &fakeOutboxRepo{}
	zl := zerolog.Nop()
	return &fixture{
		svc:       NewService(bookingRepo, payments, outbox, nil, catalog, availSvc, discount.NewService(discounts), nil, &zl),
		repo:      bookingRepo,
		catalog:   catalog,
		payments:  payments,
		discounts: discounts,
		outbox:    outbox,
		serviceID: svcModel.ID,
	}
}

func (fx *fixture) create(t *testing.T, slot string) *model.Booking {
	t.Helper()
	b, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      mondayDate,
		Time:      slot,
	})
	require.NoError(t, err)
	return b
}

func TestCreate_BooksOpenSlot(t *testing.T) {
	fx := newFixture(t)

	b := fx.create(t, "10:00")
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, "10:00", b.Time)

	require.Len(t, fx.outbox.events, 1)
	assert.Equal(t, "booking.created", fx.outbox.events[0].EventType)
}

func TestCreate_RejectsInactiveService(t *testing.T) {
	fx := newFixture(t)

	retired := &model.Service{Name: "Carb Tuning", Slug: "carb-tuning", Price: 9000, Active: false}
	retired.ID = uuid.New()
	require.NoError(t, fx.catalog.CreateService(context.Background(), retired))

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: retired.ID,
		Date:      mondayDate,
		Time:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Empty(t, fx.repo.bookings)
	assert.Empty(t, fx.payments.created)
}

func TestCreate_OpensPendingPayment(t *testing.T) {
	fx := newFixture(t)

	b := fx.create(t, "10:00")

	require.Len(t, fx.payments.created, 1)
	p := fx.payments.created[0]
	assert.Equal(t, b.ID, p.BookingID)
	assert.Equal(t, b.CustomerID, p.CustomerID)
	assert.Equal(t, oilChangePrice, p.Amount)
	assert.Equal(t, model.PaymentStatusPending, p.Status)
}

func TestCreate_DiscountCodeReducesPaymentAmount(t *testing.T) {
	fx := newFixture(t)

	d := &model.Discount{
		Code:      "SAVE10",
		Type:      model.DiscountTypePercent,
		Value:     10,
		ValidFrom: time.Now().Add(-time.Hour),
		ValidTo:   time.Now().Add(time.Hour),
		MaxUses:   1,
		Active:    true,
	}
	d.ID = uuid.New()
	require.NoError(t, fx.discounts.Create(context.Background(), d))

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID:    fx.serviceID,
		Date:         mondayDate,
		Time:         "10:00",
		DiscountCode: "SAVE10",
	})
	require.NoError(t, err)

	require.Len(t, fx.payments.created, 1)
	assert.Equal(t, int64(4500), fx.payments.created[0].Amount)
	assert.Equal(t, 1, d.UsedCount)

	// The single use is consumed.
	_, err = fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID:    fx.serviceID,
		Date:         mondayDate,
		Time:         "11:00",
		DiscountCode: "SAVE10",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreate_UnknownDiscountCodeFailsBooking(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID:    fx.serviceID,
		Date:         mondayDate,
		Time:         "10:00",
		DiscountCode: "NOPE",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, fx.repo.bookings)
	assert.Empty(t, fx.payments.created)
}

func TestCreate_TakenSlotConflicts(t *testing.T) {
	fx := newFixture(t)
	fx.create(t, "10:00")

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      mondayDate,
		Time:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreate_RejectsOutOfHoursSlot(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      mondayDate,
		Time:      "18:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreate_RejectsClosedDay(t *testing.T) {
	fx := newFixture(t)

	// 2026-09-08 is a Tuesday with no business hours configured.
	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      "2026-09-08",
		Time:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Contains(t, err.Error(), "closed")
}

func TestCreate_RejectsMalformedInput(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      "07-09-2026",
		Time:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	_, err = fx.svc.Create(context.Background(), uuid.New(), &model.CreateBookingRequest{
		ServiceID: fx.serviceID,
		Date:      mondayDate,
		Time:      "10am",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestCancel_ReleasesSlot(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")

	cancelled, err := fx.svc.Cancel(context.Background(), b.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "changed my mind", *cancelled.CancelReason)

	// The slot is bookable again.
	fx.create(t, "10:00")
}

func TestCancel_RejectsTerminalStatuses(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")

	_, err := fx.svc.Cancel(context.Background(), b.ID, "")
	require.NoError(t, err)

	_, err = fx.svc.Cancel(context.Background(), b.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")

	_, err := fx.svc.Complete(context.Background(), b.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	b.Status = model.BookingStatusConfirmed
	completed, err := fx.svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, completed.Status)
}

func TestReschedule_MovesToOpenSlot(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")

	moved, err := fx.svc.Reschedule(context.Background(), b.ID, mondayDate, "11:00")
	require.NoError(t, err)
	assert.Equal(t, "11:00", moved.Time)

	// The old slot is free again.
	fx.create(t, "10:00")
}

func TestReschedule_RejectsTakenSlot(t *testing.T) {
	fx := newFixture(t)
	fx.create(t, "11:00")
	b := fx.create(t, "10:00")

	_, err := fx.svc.Reschedule(context.Background(), b.ID, mondayDate, "11:00")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestReschedule_RejectsCancelledBooking(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")
	_, err := fx.svc.Cancel(context.Background(), b.ID, "")
	require.NoError(t, err)

	_, err = fx.svc.Reschedule(context.Background(), b.ID, mondayDate, "11:00")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestLifecycleEmitsOutboxEvents(t *testing.T) {
	fx := newFixture(t)
	b := fx.create(t, "10:00")

	_, err := fx.svc.Reschedule(context.Background(), b.ID, mondayDate, "11:00")
	require.NoError(t, err)
	_, err = fx.svc.Cancel(context.Background(), b.ID, "")
	require.NoError(t, err)

	var types []string
	for _, e := range fx.outbox.events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{"booking.created", "booking.rescheduled", "booking.cancelled"}, types)
}
