package commission_report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	"github.com/salonkit/booking-service/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (r *stubAppointmentRepo) ListCompletedByProfessionalAndPeriod(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Appointment, error) {
	return r.appointments, r.err
}

type stubProfessionalRepo struct {
	professional *domain.Professional
	err          error
}

func (r *stubProfessionalRepo) GetByID(_ context.Context, _, _ int64) (*domain.Professional, error) {
	return r.professional, r.err
}

type stubCatalogRepo struct {
	prices map[string]float64
}

func (r *stubCatalogRepo) GetServicePriceByName(_ context.Context, _ int64, name string) (float64, error) {
	price, ok := r.prices[name]
	if !ok {
		return 0, catalogRepo.ErrServiceNotFound
	}
	return price, nil
}

type stubScheduleRepo struct {
	config *domain.ShopConfig
}

func (r *stubScheduleRepo) GetShopConfig(_ context.Context, _ int64) (*domain.ShopConfig, error) {
	return r.config, nil
}

func completedAppointment(id int64, serviceName string, settlement domain.SettlementMethod) *domain.Appointment {
	return &domain.Appointment{
		ID:               id,
		ShopID:           1,
		ClientID:         100,
		ProfessionalID:   5,
		Date:             time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:        "10:00",
		Status:           domain.StatusCompleted,
		ServiceName:      serviceName,
		SettlementMethod: ptr.Ptr(settlement),
	}
}

func period() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(appts []*domain.Appointment, rate float64, config *domain.ShopConfig, prices map[string]float64) *UseCase {
	return NewUseCase(
		&stubAppointmentRepo{appointments: appts},
		&stubProfessionalRepo{professional: &domain.Professional{ID: 5, ShopID: 1, CommissionRate: rate}},
		&stubCatalogRepo{prices: prices},
		&stubScheduleRepo{config: config},
		noopLogger{},
	)
}

func TestExecute_EmptyPeriodIsZero(t *testing.T) {
	start, end := period()
	uc := newTestUseCase(nil, 0.25, &domain.ShopConfig{ShopID: 1}, nil)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Zero(t, resp.CommissionBase)
	assert.Zero(t, resp.CommissionAmount)
	assert.Zero(t, resp.AppointmentCount)
	assert.Empty(t, resp.Lines)
}

func TestExecute_CommissionIsRateTimesCatalogPrices(t *testing.T) {
	start, end := period()
	appts := []*domain.Appointment{
		completedAppointment(1, "Haircut", domain.SettlementCash),
		completedAppointment(2, "Coloring", domain.SettlementCard),
	}
	prices := map[string]float64{"Haircut": 50, "Coloring": 150}

	uc := newTestUseCase(appts, 0.25, &domain.ShopConfig{ShopID: 1}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 200.0, resp.CommissionBase)
	assert.Equal(t, 50.0, resp.CommissionAmount)
	assert.Equal(t, 2, resp.AppointmentCount)
}

func TestExecute_MissingServiceCountsAsZero(t *testing.T) {
	start, end := period()
	appts := []*domain.Appointment{
		completedAppointment(1, "Haircut", domain.SettlementCash),
		completedAppointment(2, "Retired Service", domain.SettlementCash),
	}
	prices := map[string]float64{"Haircut": 50}

	uc := newTestUseCase(appts, 0.5, &domain.ShopConfig{ShopID: 1}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.CommissionBase)
	assert.Equal(t, 25.0, resp.CommissionAmount)
	assert.Equal(t, 2, resp.AppointmentCount)
	assert.Zero(t, resp.Lines[1].ServicePrice)
}

func TestExecute_SubscriptionExcludedByDefault(t *testing.T) {
	start, end := period()
	appts := []*domain.Appointment{
		completedAppointment(1, "Haircut", domain.SettlementCash),
		completedAppointment(2, "Haircut", domain.SettlementSubscription),
	}
	prices := map[string]float64{"Haircut": 50}

	uc := newTestUseCase(appts, 0.5, &domain.ShopConfig{ShopID: 1}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.CommissionBase)
	assert.False(t, resp.Lines[1].Commissionable)
}

func TestExecute_SubscriptionIncludedWhenEnabled(t *testing.T) {
	start, end := period()
	appts := []*domain.Appointment{
		completedAppointment(1, "Haircut", domain.SettlementSubscription),
	}
	prices := map[string]float64{"Haircut": 50}

	uc := newTestUseCase(appts, 0.5, &domain.ShopConfig{ShopID: 1, CommissionOnSubscription: true}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.CommissionBase)
	assert.True(t, resp.Lines[0].Commissionable)
}

func TestExecute_ProductsIncludedWhenEnabled(t *testing.T) {
	start, end := period()
	appt := completedAppointment(1, "Haircut", domain.SettlementCard)
	appt.Products = []domain.ProductSale{
		{ProductID: 7, Quantity: 2, UnitPrice: 15},
	}
	prices := map[string]float64{"Haircut": 50}

	uc := newTestUseCase([]*domain.Appointment{appt}, 0.2,
		&domain.ShopConfig{ShopID: 1, CommissionIncludesProducts: true}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 80.0, resp.CommissionBase)
	assert.Equal(t, 16.0, resp.CommissionAmount)
	assert.Equal(t, 30.0, resp.ProductRevenue)
}

func TestExecute_ProductsExcludedByDefault(t *testing.T) {
	start, end := period()
	appt := completedAppointment(1, "Haircut", domain.SettlementCard)
	appt.Products = []domain.ProductSale{
		{ProductID: 7, Quantity: 1, UnitPrice: 20},
	}
	prices := map[string]float64{"Haircut": 50}

	uc := newTestUseCase([]*domain.Appointment{appt}, 0.2, &domain.ShopConfig{ShopID: 1}, prices)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.CommissionBase)
	assert.Equal(t, 20.0, resp.ProductRevenue)
}

func TestExecute_ProfessionalNotFound(t *testing.T) {
	start, end := period()
	uc := NewUseCase(
		&stubAppointmentRepo{},
		&stubProfessionalRepo{err: professionalRepo.ErrProfessionalNotFound},
		&stubCatalogRepo{},
		&stubScheduleRepo{config: &domain.ShopConfig{ShopID: 1}},
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 99, StartDate: start, EndDate: end})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestExecute_InvalidPeriod(t *testing.T) {
	start, end := period()
	uc := newTestUseCase(nil, 0.25, &domain.ShopConfig{ShopID: 1}, nil)

	_, err := uc.Execute(context.Background(), &Request{ShopID: 1, ProfessionalID: 5, StartDate: end, EndDate: start})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
