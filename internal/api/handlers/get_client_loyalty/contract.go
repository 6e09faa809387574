package get_client_loyalty

import (
	"context"

	"github.com/salonkit/booking-service/internal/service/clients"
)

type ClientsService interface {
	GetLoyalty(ctx context.Context, clientID int64) (*clients.LoyaltyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
