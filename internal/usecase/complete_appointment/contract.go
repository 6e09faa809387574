package complete_appointment

import (
	"context"

	"github.com/salonkit/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByID получает запись по ID. Внутри транзакции строка блокируется (FOR UPDATE).
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	// UpdateStatus обновляет статус и способ расчета записи
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, settlement *domain.SettlementMethod) error
}

// ScheduleRepository интерфейс репозитория конфигурации салона
type ScheduleRepository interface {
	GetShopConfig(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	// IncrementPoints атомарно увеличивает баланс баллов клиента
	IncrementPoints(ctx context.Context, clientID int64, delta int) (int, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
