package list_shop_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/service/appointments"
	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

const (
	msgInvalidShopID       = "некорректный ID салона"
	msgInvalidProfessional = "некорректный ID мастера"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/appointments
// Query params: date (required, YYYY-MM-DD), professionalId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/appointments - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /shops/{id}/appointments - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/appointments - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.ListShopAppointmentsRequest{
		ShopID: shopID,
		Date:   date,
	}

	if professionalIDStr := r.URL.Query().Get("professionalId"); professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/appointments - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessional)
			return
		}
		req.ProfessionalID = &professionalID
	}

	result, err := h.service.ListByShopAndDate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /shops/{id}/appointments - Failed to list appointments: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/appointments - Appointments retrieved: shop_id=%d, count=%d",
		shopID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
