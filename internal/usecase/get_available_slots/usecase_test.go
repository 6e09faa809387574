package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
	"github.com/salonkit/booking-service/pkg/types"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (r *stubAppointmentRepo) ListByProfessionalAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return r.appointments, r.err
}

type stubScheduleRepo struct {
	config      *domain.ShopConfig
	configErr   error
	schedule    *domain.OperatingSchedule
	scheduleErr error
}

func (r *stubScheduleRepo) GetShopConfig(_ context.Context, _ int64) (*domain.ShopConfig, error) {
	return r.config, r.configErr
}

func (r *stubScheduleRepo) GetOperatingSchedule(_ context.Context, _ int64) (*domain.OperatingSchedule, error) {
	return r.schedule, r.scheduleErr
}

type stubCatalogRepo struct {
	service *domain.Service
	err     error
}

func (r *stubCatalogRepo) GetServiceByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return r.service, r.err
}

type stubProfessionalRepo struct {
	professional *domain.Professional
	err          error
}

func (r *stubProfessionalRepo) GetByID(_ context.Context, _, _ int64) (*domain.Professional, error) {
	return r.professional, r.err
}

func openDay(start, end types.TimeString) domain.DaySchedule {
	return domain.DaySchedule{Open: true, Start: start, End: end}
}

func weekSchedule(day domain.DaySchedule) *domain.OperatingSchedule {
	s := &domain.OperatingSchedule{}
	s.Monday = day
	s.Tuesday = day
	s.Wednesday = day
	s.Thursday = day
	s.Friday = day
	s.Saturday = day
	s.Sunday = day
	return s
}

func newTestUseCase(
	appointments *stubAppointmentRepo,
	schedule *stubScheduleRepo,
	catalog *stubCatalogRepo,
	professional *stubProfessionalRepo,
	now time.Time,
) *UseCase {
	uc := NewUseCase(appointments, schedule, catalog, professional, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_ReturnsAllSlotsOnEmptyDay(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{
			config:   &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30},
			schedule: weekSchedule(openDay("09:00", "18:00")),
		},
		&stubCatalogRepo{service: &domain.Service{
			ID:                      10,
			DurationMinutes:         30,
			EligibleProfessionalIDs: []int64{5},
		}},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.False(t, resp.Closed)
	assert.Len(t, resp.Slots, 18)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0])
	assert.Equal(t, types.TimeString("17:30"), resp.Slots[len(resp.Slots)-1])
}

func TestExecute_ClosedDayReturnsEmptySlots(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{
			config:   &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30},
			schedule: weekSchedule(domain.DaySchedule{Open: false}),
		},
		&stubCatalogRepo{service: &domain.Service{
			ID:                      10,
			DurationMinutes:         30,
			EligibleProfessionalIDs: []int64{5},
		}},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ExistingAppointmentBlocksFootprint(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{appointments: []*domain.Appointment{
			{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		}},
		&stubScheduleRepo{
			config:   &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30},
			schedule: weekSchedule(openDay("09:00", "18:00")),
		},
		&stubCatalogRepo{service: &domain.Service{
			ID:                      10,
			DurationMinutes:         30,
			EligibleProfessionalIDs: []int64{5},
		}},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.NotContains(t, resp.Slots, types.TimeString("10:00"))
	assert.NotContains(t, resp.Slots, types.TimeString("10:30"))
	assert.Contains(t, resp.Slots, types.TimeString("09:30"))
	assert.Contains(t, resp.Slots, types.TimeString("11:00"))
}

func TestExecute_SameDayFiltersSlotsBeforeNotice(t *testing.T) {
	now := time.Date(2025, 6, 3, 11, 50, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{
			config:   &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30, MinBookingNoticeMinutes: 30},
			schedule: weekSchedule(openDay("09:00", "18:00")),
		},
		&stubCatalogRepo{service: &domain.Service{
			ID:                      10,
			DurationMinutes:         30,
			EligibleProfessionalIDs: []int64{5},
		}},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.NotContains(t, resp.Slots, types.TimeString("12:00"))
	assert.Equal(t, types.TimeString("12:30"), resp.Slots[0])
}

func TestExecute_PastDateRejected(t *testing.T) {
	now := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{},
		&stubCatalogRepo{},
		&stubProfessionalRepo{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_NotEligibleProfessional(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{
			config:   &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30},
			schedule: weekSchedule(openDay("09:00", "18:00")),
		},
		&stubCatalogRepo{service: &domain.Service{
			ID:                      10,
			DurationMinutes:         30,
			EligibleProfessionalIDs: []int64{7},
		}},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 10, Date: date})
	assert.ErrorIs(t, err, ErrProfessionalNotEligible)
}

func TestExecute_ShopNotFound(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{configErr: scheduleRepo.ErrShopNotFound},
		&stubCatalogRepo{},
		&stubProfessionalRepo{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 99, ProfessionalID: 5, ServiceID: 10, Date: date})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{config: &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30}},
		&stubCatalogRepo{err: catalogRepo.ErrServiceNotFound},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, Active: true}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, ServiceID: 99, Date: date})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ProfessionalNotFound(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubAppointmentRepo{},
		&stubScheduleRepo{config: &domain.ShopConfig{ShopID: 1, SlotIntervalMinutes: 30}},
		&stubCatalogRepo{},
		&stubProfessionalRepo{err: professionalRepo.ErrProfessionalNotFound},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 99, ServiceID: 10, Date: date})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(&stubAppointmentRepo{}, &stubScheduleRepo{}, &stubCatalogRepo{}, &stubProfessionalRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 0, ProfessionalID: 5, ServiceID: 10, Date: now})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
