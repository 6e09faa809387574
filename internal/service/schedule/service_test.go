package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
	"github.com/salonkit/booking-service/internal/service/schedule/models"
	"github.com/salonkit/booking-service/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memScheduleRepo struct {
	configs   map[int64]*domain.ShopConfig
	schedules map[int64]*domain.OperatingSchedule
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{
		configs:   make(map[int64]*domain.ShopConfig),
		schedules: make(map[int64]*domain.OperatingSchedule),
	}
}

func (r *memScheduleRepo) GetShopConfig(_ context.Context, shopID int64) (*domain.ShopConfig, error) {
	cfg, ok := r.configs[shopID]
	if !ok {
		return nil, scheduleRepo.ErrShopNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (r *memScheduleRepo) UpdateShopConfig(_ context.Context, cfg *domain.ShopConfig) error {
	if _, ok := r.configs[cfg.ShopID]; !ok {
		return scheduleRepo.ErrShopNotFound
	}
	copied := *cfg
	r.configs[cfg.ShopID] = &copied
	return nil
}

func (r *memScheduleRepo) GetOperatingSchedule(_ context.Context, shopID int64) (*domain.OperatingSchedule, error) {
	week, ok := r.schedules[shopID]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	copied := *week
	return &copied, nil
}

func (r *memScheduleRepo) UpsertOperatingSchedule(_ context.Context, shopID int64, week *domain.OperatingSchedule) error {
	copied := *week
	r.schedules[shopID] = &copied
	return nil
}

func testConfig() *domain.ShopConfig {
	return &domain.ShopConfig{
		ShopID:                  1,
		Name:                    "Barbershop Central",
		SlotIntervalMinutes:     30,
		MinBookingNoticeMinutes: 60,
		LoyaltyEnabled:          true,
		PointsPerService:        1,
	}
}

func openDay(start, end string) models.DayScheduleDTO {
	return models.DayScheduleDTO{Open: true, Start: &start, End: &end}
}

func TestGet(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()
	repo.schedules[1] = &domain.OperatingSchedule{
		Monday: domain.DaySchedule{Open: true, Start: "09:00", End: "18:00"},
	}

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ShopID)
	assert.Equal(t, "Barbershop Central", resp.Name)
	assert.Equal(t, 30, resp.SlotIntervalMinutes)
	assert.True(t, resp.Week.Monday.Open)
	require.NotNil(t, resp.Week.Monday.Start)
	assert.Equal(t, "09:00", *resp.Week.Monday.Start)
	assert.False(t, resp.Week.Sunday.Open)
}

func TestGet_NoScheduleReturnsClosedWeek(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, resp.Week.Monday.Open)
	assert.False(t, resp.Week.Saturday.Open)
}

func TestGet_ShopNotFound(t *testing.T) {
	svc := NewService(newMemScheduleRepo(), passthroughTxManager{}, noopLogger{})

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestUpdate_PartialConfig(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
		SlotIntervalMinutes: ptr.Ptr(15),
		LoyaltyEnabled:      ptr.Ptr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, 15, resp.SlotIntervalMinutes)
	assert.False(t, resp.LoyaltyEnabled)
	// Неуказанные поля не изменились
	assert.Equal(t, 60, resp.MinBookingNoticeMinutes)
	assert.Equal(t, 1, resp.PointsPerService)
}

func TestUpdate_EnableLoyaltyAppliesDefaultPoints(t *testing.T) {
	repo := newMemScheduleRepo()
	cfg := testConfig()
	cfg.LoyaltyEnabled = false
	cfg.PointsPerService = 0
	repo.configs[1] = cfg

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
		LoyaltyEnabled: ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.True(t, resp.LoyaltyEnabled)
	assert.Equal(t, domain.DefaultPointsPerService, resp.PointsPerService)
	assert.Equal(t, domain.DefaultPointsPerService, repo.configs[1].PointsPerService)
}

func TestUpdate_ExplicitZeroPointsKept(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	// Явный ноль - осознанный выбор, умолчание не применяется
	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
		LoyaltyEnabled:   ptr.Ptr(true),
		PointsPerService: ptr.Ptr(0),
	})
	require.NoError(t, err)

	assert.True(t, resp.LoyaltyEnabled)
	assert.Equal(t, 0, resp.PointsPerService)
}

func TestUpdate_Week(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	week := &models.WeekScheduleDTO{
		Monday:  openDay("10:00", "19:00"),
		Tuesday: openDay("10:00", "19:00"),
	}

	resp, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{Week: week})
	require.NoError(t, err)

	assert.True(t, resp.Week.Monday.Open)
	assert.Equal(t, "10:00", *resp.Week.Monday.Start)
	assert.False(t, resp.Week.Wednesday.Open)

	stored := repo.schedules[1]
	require.NotNil(t, stored)
	assert.Equal(t, "19:00", stored.Tuesday.End.String())
}

func TestUpdate_InvalidWeekRejected(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	// Начало после конца
	week := &models.WeekScheduleDTO{
		Monday: openDay("19:00", "10:00"),
	}

	_, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{Week: week})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestUpdate_InvalidSlotInterval(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.configs[1] = testConfig()

	svc := NewService(repo, passthroughTxManager{}, noopLogger{})

	_, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
		SlotIntervalMinutes: ptr.Ptr(7),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_ShopNotFound(t *testing.T) {
	svc := NewService(newMemScheduleRepo(), passthroughTxManager{}, noopLogger{})

	_, err := svc.Update(context.Background(), 99, &models.UpdateScheduleRequest{
		SlotIntervalMinutes: ptr.Ptr(15),
	})
	assert.ErrorIs(t, err, ErrShopNotFound)
}
