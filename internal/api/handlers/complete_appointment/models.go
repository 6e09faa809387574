package complete_appointment

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	completeAppointment "github.com/salonkit/booking-service/internal/usecase/complete_appointment"
)

// CompleteAppointmentRequest HTTP request model
type CompleteAppointmentRequest struct {
	SettlementMethod string `json:"settlementMethod"` // cash, card, instant_payment, courtesy, subscription
}

// CompletedAppointmentResponse HTTP response model
type CompletedAppointmentResponse struct {
	ID               int64   `json:"id"`
	ShopID           int64   `json:"shopId"`
	ClientID         int64   `json:"clientId"`
	ProfessionalID   int64   `json:"professionalId"`
	ServiceID        int64   `json:"serviceId"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	Status           string  `json:"status"`
	SettlementMethod string  `json:"settlementMethod"`
	ServiceName      string  `json:"serviceName"`
	ServicePrice     float64 `json:"servicePrice"`
	PointsAccrued    int     `json:"pointsAccrued"`
	UpdatedAt        string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *completeAppointment.Response) *CompletedAppointmentResponse {
	return &CompletedAppointmentResponse{
		ID:               resp.ID,
		ShopID:           resp.ShopID,
		ClientID:         resp.ClientID,
		ProfessionalID:   resp.ProfessionalID,
		ServiceID:        resp.ServiceID,
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		Status:           resp.Status,
		SettlementMethod: resp.SettlementMethod,
		ServiceName:      resp.ServiceName,
		ServicePrice:     resp.ServicePrice,
		PointsAccrued:    resp.PointsAccrued,
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
