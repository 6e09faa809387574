package add_product_sale

import (
	"context"

	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

type AppointmentsService interface {
	AddProductSale(ctx context.Context, req *models.AddProductSaleRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
