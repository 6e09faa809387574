package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAppointmentRepo struct {
	items      map[int64]*domain.Appointment
	nextSaleID int64
}

func newMemAppointmentRepo(appts ...*domain.Appointment) *memAppointmentRepo {
	r := &memAppointmentRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range appts {
		r.items[a.ID] = a
	}
	return r
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memAppointmentRepo) ListByShopAndDate(_ context.Context, shopID int64, date time.Time) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range r.items {
		if a.ShopID == shopID && a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByProfessionalAndDate(_ context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range r.items {
		if a.ProfessionalID == professionalID && a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus, settlement *domain.SettlementMethod) error {
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	a.SettlementMethod = settlement
	return nil
}

func (r *memAppointmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memAppointmentRepo) AddProductSale(_ context.Context, sale *domain.ProductSale) (*domain.ProductSale, error) {
	a, ok := r.items[sale.AppointmentID]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	r.nextSaleID++
	created := *sale
	created.ID = r.nextSaleID
	a.Products = append(a.Products, created)
	return &created, nil
}

type stubCatalogRepo struct {
	prices map[int64]float64
}

func (r *stubCatalogRepo) GetProductPrice(_ context.Context, _, productID int64) (float64, error) {
	price, ok := r.prices[productID]
	if !ok {
		return 0, catalogRepo.ErrProductNotFound
	}
	return price, nil
}

func confirmedAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:             id,
		ShopID:         1,
		ClientID:       100,
		ProfessionalID: 5,
		ServiceID:      10,
		Date:           time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		Status:         domain.StatusConfirmed,
		ServiceName:    "Haircut",
		ServicePrice:   50,
	}
}

func newTestService(repo *memAppointmentRepo, prices map[int64]float64) *Service {
	return NewService(repo, &stubCatalogRepo{prices: prices}, passthroughTxManager{}, noopLogger{})
}

func TestStart_TransitionsToInProgress(t *testing.T) {
	repo := newMemAppointmentRepo(confirmedAppointment(1))
	svc := newTestService(repo, nil)

	resp, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, domain.StatusInProgress, repo.items[1].Status)
}

func TestStart_CompletedCannotBeRestarted(t *testing.T) {
	done := confirmedAppointment(1)
	done.Status = domain.StatusCompleted
	svc := newTestService(newMemAppointmentRepo(done), nil)

	_, err := svc.Start(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDelete_RemovesAppointment(t *testing.T) {
	repo := newMemAppointmentRepo(confirmedAppointment(1))
	svc := newTestService(repo, nil)

	err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, repo.items)
}

func TestDelete_CompletedIsRemoved(t *testing.T) {
	done := confirmedAppointment(1)
	done.Status = domain.StatusCompleted
	repo := newMemAppointmentRepo(done)
	svc := newTestService(repo, nil)

	// Удаление безусловно: статус записи роли не играет
	err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, repo.items)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(newMemAppointmentRepo(), nil)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAddProductSale_CapturesCatalogPrice(t *testing.T) {
	repo := newMemAppointmentRepo(confirmedAppointment(1))
	svc := newTestService(repo, map[int64]float64{7: 15})

	resp, err := svc.AddProductSale(context.Background(), &models.AddProductSaleRequest{
		AppointmentID: 1,
		ProductID:     7,
		Quantity:      2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 15.0, resp.Products[0].UnitPrice)
	assert.Equal(t, 30.0, resp.Products[0].Total)
}

func TestAddProductSale_UnknownProduct(t *testing.T) {
	svc := newTestService(newMemAppointmentRepo(confirmedAppointment(1)), nil)

	_, err := svc.AddProductSale(context.Background(), &models.AddProductSaleRequest{
		AppointmentID: 1,
		ProductID:     99,
		Quantity:      1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddProductSale_CompletedAppointment(t *testing.T) {
	done := confirmedAppointment(1)
	done.Status = domain.StatusCompleted
	svc := newTestService(newMemAppointmentRepo(done), map[int64]float64{7: 15})

	_, err := svc.AddProductSale(context.Background(), &models.AddProductSaleRequest{
		AppointmentID: 1,
		ProductID:     7,
		Quantity:      1,
	})
	assert.ErrorIs(t, err, ErrAppointmentCompleted)
}

func TestAddProductSale_InvalidQuantity(t *testing.T) {
	svc := newTestService(newMemAppointmentRepo(confirmedAppointment(1)), nil)

	_, err := svc.AddProductSale(context.Background(), &models.AddProductSaleRequest{
		AppointmentID: 1,
		ProductID:     7,
		Quantity:      0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByShopAndDate_FiltersByProfessional(t *testing.T) {
	first := confirmedAppointment(1)
	second := confirmedAppointment(2)
	second.ProfessionalID = 6
	repo := newMemAppointmentRepo(first, second)
	svc := newTestService(repo, nil)

	professionalID := int64(6)
	resp, err := svc.ListByShopAndDate(context.Background(), &models.ListShopAppointmentsRequest{
		ShopID:         1,
		ProfessionalID: &professionalID,
		Date:           first.Date,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)
}
