package create_appointment

import (
	"context"
	"time"

	"github.com/salonkit/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create сохраняет новую запись и возвращает её с присвоенным ID
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// ListByProfessionalAndDate получает записи мастера на календарный день.
	// Внутри транзакции строки блокируются (FOR UPDATE).
	ListByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания салона
type ScheduleRepository interface {
	GetShopConfig(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
	GetOperatingSchedule(ctx context.Context, shopID int64) (*domain.OperatingSchedule, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, shopID, serviceID int64) (*domain.Service, error)
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, shopID, id int64) (*domain.Professional, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
