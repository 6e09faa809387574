package appointments

import (
	"context"
	"time"

	"github.com/salonkit/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByShopAndDate(ctx context.Context, shopID int64, date time.Time) ([]*domain.Appointment, error)
	ListByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, settlement *domain.SettlementMethod) error
	Delete(ctx context.Context, id int64) error
	AddProductSale(ctx context.Context, sale *domain.ProductSale) (*domain.ProductSale, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetProductPrice(ctx context.Context, shopID, productID int64) (float64, error)
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
