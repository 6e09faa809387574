package schedule

import (
	"context"

	"github.com/salonkit/booking-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания салона
type ScheduleRepository interface {
	GetShopConfig(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
	UpdateShopConfig(ctx context.Context, cfg *domain.ShopConfig) error
	GetOperatingSchedule(ctx context.Context, shopID int64) (*domain.OperatingSchedule, error)
	UpsertOperatingSchedule(ctx context.Context, shopID int64, schedule *domain.OperatingSchedule) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
