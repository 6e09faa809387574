package complete_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type memAppointmentRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.Appointment
}

func newMemAppointmentRepo(appts ...*domain.Appointment) *memAppointmentRepo {
	r := &memAppointmentRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range appts {
		r.items[a.ID] = a
	}
	return r
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus, settlement *domain.SettlementMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	a.SettlementMethod = settlement
	a.UpdatedAt = time.Now()
	return nil
}

type stubScheduleRepo struct {
	config *domain.ShopConfig
	err    error
}

func (r *stubScheduleRepo) GetShopConfig(_ context.Context, _ int64) (*domain.ShopConfig, error) {
	return r.config, r.err
}

type memClientRepo struct {
	mu       sync.Mutex
	balances map[int64]int
}

func (r *memClientRepo) IncrementPoints(_ context.Context, clientID int64, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[clientID]; !ok {
		return 0, clientRepo.ErrClientNotFound
	}
	r.balances[clientID] += delta
	return r.balances[clientID], nil
}

func inProgressAppointment(id, clientID int64) *domain.Appointment {
	return &domain.Appointment{
		ID:             id,
		ShopID:         1,
		ClientID:       clientID,
		ProfessionalID: 5,
		ServiceID:      10,
		Date:           time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		Status:         domain.StatusInProgress,
		ServiceName:    "Haircut",
		ServicePrice:   50,
	}
}

func loyaltyConfig(enabled bool, points int) *domain.ShopConfig {
	return &domain.ShopConfig{
		ShopID:           1,
		LoyaltyEnabled:   enabled,
		PointsPerService: points,
	}
}

func TestExecute_CompletesAndAccruesPoints(t *testing.T) {
	appts := newMemAppointmentRepo(inProgressAppointment(1, 100))
	clients := &memClientRepo{balances: map[int64]int{100: 5}}

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(true, 1)}, clients, &serialTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "card", resp.SettlementMethod)
	assert.Equal(t, 1, resp.PointsAccrued)
	assert.Equal(t, 6, clients.balances[100])
}

func TestExecute_LoyaltyDisabledSkipsAccrual(t *testing.T) {
	appts := newMemAppointmentRepo(inProgressAppointment(1, 100))
	clients := &memClientRepo{balances: map[int64]int{100: 5}}

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(false, 1)}, clients, &serialTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PointsAccrued)
	assert.Equal(t, 5, clients.balances[100])
}

func TestExecute_MissingClientDoesNotFailCompletion(t *testing.T) {
	appts := newMemAppointmentRepo(inProgressAppointment(1, 999))
	clients := &memClientRepo{balances: map[int64]int{}}

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(true, 1)}, clients, &serialTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "courtesy"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 0, resp.PointsAccrued)
}

func TestExecute_InvalidTransitionFromCompleted(t *testing.T) {
	done := inProgressAppointment(1, 100)
	done.Status = domain.StatusCompleted
	appts := newMemAppointmentRepo(done)
	clients := &memClientRepo{balances: map[int64]int{100: 5}}

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(true, 1)}, clients, &serialTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "cash"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 5, clients.balances[100])
}

func TestExecute_InvalidTransitionFromPending(t *testing.T) {
	pending := inProgressAppointment(1, 100)
	pending.Status = domain.StatusPending
	appts := newMemAppointmentRepo(pending)

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(true, 1)},
		&memClientRepo{balances: map[int64]int{}}, &serialTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "cash"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_UnknownSettlementMethod(t *testing.T) {
	appts := newMemAppointmentRepo(inProgressAppointment(1, 100))

	uc := NewUseCase(appts, &stubScheduleRepo{config: loyaltyConfig(true, 1)},
		&memClientRepo{balances: map[int64]int{}}, &serialTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, SettlementMethod: "barter"})
	assert.ErrorIs(t, err, ErrInvalidSettlementMethod)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc := NewUseCase(newMemAppointmentRepo(), &stubScheduleRepo{config: loyaltyConfig(true, 1)},
		&memClientRepo{balances: map[int64]int{}}, &serialTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, SettlementMethod: "cash"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_ConcurrentCompletionsAccrueExactly(t *testing.T) {
	const n = 8
	appts := make([]*domain.Appointment, 0, n)
	for i := int64(1); i <= n; i++ {
		appts = append(appts, inProgressAppointment(i, 100))
	}
	repo := newMemAppointmentRepo(appts...)
	clients := &memClientRepo{balances: map[int64]int{100: 10}}

	uc := NewUseCase(repo, &stubScheduleRepo{config: loyaltyConfig(true, 1)}, clients, &serialTxManager{}, noopLogger{})

	var wg sync.WaitGroup
	for i := int64(1); i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{AppointmentID: id, SettlementMethod: "card"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10+n, clients.balances[100])
}
