package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/config"
	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type fakeAvailabilityRepo struct {
	hours    map[int]*model.BusinessHour
	holidays map[string]*model.Holiday
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		hours:    make(map[int]*model.BusinessHour),
		holidays: make(map[string]*model.Holiday),
	}
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
	var out []*model.BusinessHour
	for _, h := range f.hours {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) GetHolidayByDate(_ context.Context, date time.Time) (*model.Holiday, error) {
	h, ok := f.holidays[date.Format("2006-01-02")]
	if !ok {
		return nil, apperrors.NotFound("holiday")
	}
	return h, nil
}

func (f *fakeAvailabilityRepo) CreateHoliday(_ context.Context, holiday *model.Holiday) error {
	key := holiday.Date.Format("2006-01-02")
	if _, exists := f.holidays[key]; exists {
		return apperrors.Conflict("holiday already exists for this date")
	}
	f.holidays[key] = holiday
	return nil
}

func (f *fakeAvailabilityRepo) DeleteHoliday(_ context.Context, id uuid.UUID) error {
	for key, h := range f.holidays {
		if h.ID == id {
			delete(f.holidays, key)
			return nil
		}
	}
	return apperrors.NotFound("holiday")
}

func (f *fakeAvailabilityRepo) ListHolidays(_ context.Context) ([]*model.Holiday, error) {
	var out []*model.Holiday
	for _, h := range f.holidays {
		out = append(out, h)
	}
	return out, nil
}

type fakeBookingRepo struct {
	bookings []*model.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
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

func (f *fakeBookingRepo) Update(_ context.Context, _ *model.Booking) error { return nil }
func (f *fakeBookingRepo) Delete(_ context.Context, _ uuid.UUID) error     { return nil }

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

type fakeCatalogRepo struct {
	services map[uuid.UUID]*model.Service
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{services: make(map[uuid.UUID]*model.Service)}
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
func (f *fakeCatalogRepo) CreateTag(_ context.Context, _ *model.Tag) error         { return nil }
func (f *fakeCatalogRepo) DeleteTag(_ context.Context, _ uuid.UUID) error          { return nil }
func (f *fakeCatalogRepo) ListTags(_ context.Context) ([]*model.Tag, error)        { return nil, nil }
func (f *fakeCatalogRepo) TagService(_ context.Context, _, _ uuid.UUID) error      { return nil }
func (f *fakeCatalogRepo) UntagService(_ context.Context, _, _ uuid.UUID) error    { return nil }
func (f *fakeCatalogRepo) ListServiceTags(_ context.Context, _ uuid.UUID) ([]*model.Tag, error) {
	return nil, nil
}

type fixture struct {
	svc       *Service
	availRepo *fakeAvailabilityRepo
	bookings  *fakeBookingRepo
	serviceID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	availRepo := newFakeAvailabilityRepo()
	bookings := &fakeBookingRepo{}
	catalog := newFakeCatalogRepo()

	svcModel := &model.Service{Name: "Oil Change", Slug: "oil-change", Active: true}
	svcModel.ID = uuid.New()
	require.NoError(t, catalog.CreateService(context.Background(), svcModel))

	cfg := config.AvailabilityConfig{SlotIntervalMinutes: 30, WeekStart: 0}
	return &fixture{
		svc:       NewService(availRepo, bookings, catalog, cfg),
		availRepo: availRepo,
		bookings:  bookings,
		serviceID: svcModel.ID,
	}
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func (fx *fixture) setHours(weekday int, open, close string, closed bool) {
	hour := &model.BusinessHour{Weekday: weekday, OpenTime: open, CloseTime: close, Closed: closed}
	hour.ID = uuid.New()
	fx.availRepo.hours[weekday] = hour
}

func (fx *fixture) addBooking(date time.Time, slot string, status model.BookingStatus) {
	b := &model.Booking{
		ServiceID:  fx.serviceID,
		CustomerID: uuid.New(),
		Date:       date,
		Time:       slot,
		Status:     status,
	}
	b.ID = uuid.New()
	fx.bookings.bookings = append(fx.bookings.bookings, b)
}

func TestComputeAvailability_HolidayShortCircuits(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)
	fx.availRepo.holidays[monday.Format("2006-01-02")] = &model.Holiday{Date: monday, Name: "Labor Day"}

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, ReasonHoliday, result.Reason)
	assert.Empty(t, result.AvailableSlots)
	assert.Nil(t, result.BusinessHours)
}

func TestComputeAvailability_HolidayWinsOverBookings(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)
	fx.addBooking(monday, "10:00", model.BookingStatusConfirmed)
	fx.availRepo.holidays[monday.Format("2006-01-02")] = &model.Holiday{Date: monday}

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, ReasonHoliday, result.Reason)
}

func TestComputeAvailability_NoBusinessHourRow(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, ReasonClosed, result.Reason)
	assert.Empty(t, result.AvailableSlots)
}

func TestComputeAvailability_ClosedFlag(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", true)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, ReasonClosed, result.Reason)
}

func TestComputeAvailability_FullDaySlotCount(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
	assert.Len(t, result.AvailableSlots, 16)
	assert.Equal(t, "09:00", result.AvailableSlots[0])
	assert.Equal(t, "16:30", result.AvailableSlots[len(result.AvailableSlots)-1])
	require.NotNil(t, result.BusinessHours)
	assert.Equal(t, "09:00", result.BusinessHours.Open)
	assert.Equal(t, "17:00", result.BusinessHours.Close)
}

func TestComputeAvailability_OccupiedSlotsExcluded(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)
	fx.addBooking(monday, "09:00", model.BookingStatusPending)
	fx.addBooking(monday, "10:30", model.BookingStatusConfirmed)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.Len(t, result.AvailableSlots, 14)
	assert.NotContains(t, result.AvailableSlots, "09:00")
	assert.NotContains(t, result.AvailableSlots, "10:30")
}

func TestComputeAvailability_CancelledAndCompletedDoNotOccupy(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)
	fx.addBooking(monday, "09:00", model.BookingStatusCancelled)
	fx.addBooking(monday, "09:30", model.BookingStatusCompleted)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.Len(t, result.AvailableSlots, 16)
	assert.Contains(t, result.AvailableSlots, "09:00")
	assert.Contains(t, result.AvailableSlots, "09:30")
}

func TestComputeAvailability_SingleSlotRemaining(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "10:00", "11:00", false)
	fx.addBooking(monday, "10:30", model.BookingStatusConfirmed)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
	assert.Equal(t, []string{"10:00"}, result.AvailableSlots)
}

func TestComputeAvailability_OpenEqualsClose(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "10:00", "10:00", false)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Empty(t, result.AvailableSlots)
	assert.Empty(t, result.Reason)
}

func TestComputeAvailability_OpenAfterClose(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "17:00", "09:00", false)

	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Empty(t, result.AvailableSlots)
}

func TestComputeAvailability_Idempotent(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "12:00", false)
	fx.addBooking(monday, "09:30", model.BookingStatusPending)

	first, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)
	second, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, monday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeAvailability_UnknownService(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "17:00", false)

	_, err := fx.svc.ComputeAvailability(context.Background(), uuid.New(), monday)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Contains(t, err.Error(), "Service not found")
}

func TestComputeAvailability_TimeOfDayIgnoresRequestClock(t *testing.T) {
	fx := newFixture(t)
	fx.setHours(1, "09:00", "10:00", false)

	// A request carrying a time component resolves to the same day.
	late := monday.Add(23*time.Hour + 15*time.Minute)
	result, err := fx.svc.ComputeAvailability(context.Background(), fx.serviceID, late)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30"}, result.AvailableSlots)
}

func TestGenerateSlots_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		open     string
		close    string
		occupied map[string]struct{}
		want     []string
	}{
		{
			name:  "slot at close excluded",
			open:  "09:00",
			close: "10:00",
			want:  []string{"09:00", "09:30"},
		},
		{
			name:  "uneven close keeps partial slot",
			open:  "09:00",
			close: "09:45",
			want:  []string{"09:00", "09:30"},
		},
		{
			name:  "empty range",
			open:  "10:00",
			close: "10:00",
			want:  []string{},
		},
		{
			name:     "occupied removed",
			open:     "09:00",
			close:    "10:30",
			occupied: map[string]struct{}{"09:30": {}},
			want:     []string{"09:00", "10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlots(tt.open, tt.close, 30*time.Minute, tt.occupied)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlots_InvalidTimes(t *testing.T) {
	_, err := GenerateSlots("9am", "17:00", 30*time.Minute, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	_, err = GenerateSlots("09:00", "late", 30*time.Minute, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestUpsertBusinessHour_ValidatesTimes(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.UpsertBusinessHour(context.Background(), &model.UpsertBusinessHourRequest{
		Weekday:  1,
		OpenTime: "nine", CloseTime: "17:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	hour, err := fx.svc.UpsertBusinessHour(context.Background(), &model.UpsertBusinessHourRequest{
		Weekday:  1,
		OpenTime: "09:00", CloseTime: "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hour.Weekday)
}

func TestCreateHoliday_ValidatesDate(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateHoliday(context.Background(), &model.CreateHolidayRequest{Date: "07-09-2026"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	holiday, err := fx.svc.CreateHoliday(context.Background(), &model.CreateHolidayRequest{
		Date: "2026-09-07",
		Name: "Labor Day",
	})
	require.NoError(t, err)
	assert.Equal(t, monday, holiday.Date)

	_, err = fx.svc.CreateHoliday(context.Background(), &model.CreateHolidayRequest{Date: "2026-09-07"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}
