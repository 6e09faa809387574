package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	scheduleService "github.com/salonkit/booking-service/internal/service/schedule"
	"github.com/salonkit/booking-service/internal/service/schedule/models"
)

const (
	msgInvalidShopID      = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgShopNotFound       = "салон не найден"
	msgInvalidSchedule    = "некорректное расписание"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/shops/{shopId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/schedule - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrShopNotFound):
			h.logger.Warn("PUT /shops/{id}/schedule - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, scheduleService.ErrInvalidSchedule):
			h.logger.Warn("PUT /shops/{id}/schedule - Invalid schedule: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("PUT /shops/{id}/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /shops/{id}/schedule - Failed to update schedule: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/schedule - Schedule updated: shop_id=%d", shopID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
