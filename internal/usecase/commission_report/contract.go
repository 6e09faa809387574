package commission_report

import (
	"context"
	"time"

	"github.com/salonkit/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListCompletedByProfessionalAndPeriod получает завершенные записи мастера за период
	ListCompletedByProfessionalAndPeriod(ctx context.Context, professionalID int64, startDate, endDate time.Time) ([]*domain.Appointment, error)
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, shopID, id int64) (*domain.Professional, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	// GetServicePriceByName получает актуальную цену услуги по названию
	GetServicePriceByName(ctx context.Context, shopID int64, name string) (float64, error)
}

// ScheduleRepository интерфейс репозитория конфигурации салона
type ScheduleRepository interface {
	GetShopConfig(ctx context.Context, shopID int64) (*domain.ShopConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
