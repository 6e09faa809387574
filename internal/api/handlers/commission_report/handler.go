package commission_report

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	"github.com/salonkit/booking-service/internal/domain"
	commissionReport "github.com/salonkit/booking-service/internal/usecase/commission_report"
)

const (
	msgInvalidShopID        = "некорректный ID салона"
	msgInvalidProfessional  = "некорректный ID мастера"
	msgMissingPeriod        = "startDate и endDate обязательны"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPeriod        = "некорректный период отчета"
	msgShopNotFound         = "салон не найден"
	msgProfessionalNotFound = "мастер не найден"
)

type Handler struct {
	useCase CommissionReportUseCase
	logger  Logger
}

func NewHandler(useCase CommissionReportUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/professionals/{professionalId}/commission-report
// Query params: startDate (required), endDate (required), YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET .../commission-report - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET .../commission-report - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessional)
		return
	}

	startDateStr := r.URL.Query().Get("startDate")
	endDateStr := r.URL.Query().Get("endDate")
	if startDateStr == "" || endDateStr == "" {
		h.logger.Warn("GET .../commission-report - Missing period")
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		h.logger.Warn("GET .../commission-report - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		h.logger.Warn("GET .../commission-report - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &commissionReport.Request{
		ShopID:         shopID,
		ProfessionalID: professionalID,
		StartDate:      startDate,
		EndDate:        endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, commissionReport.ErrShopNotFound):
			h.logger.Warn("GET .../commission-report - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, commissionReport.ErrProfessionalNotFound):
			h.logger.Warn("GET .../commission-report - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, commissionReport.ErrInvalidPeriod):
			h.logger.Warn("GET .../commission-report - Invalid period: %s..%s", startDateStr, endDateStr)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, commissionReport.ErrInvalidInput):
			h.logger.Warn("GET .../commission-report - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET .../commission-report - Failed to build report: shop_id=%d, professional_id=%d, error=%v",
				shopID, professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET .../commission-report - Report built: professional_id=%d, appointments=%d, commission=%.2f",
		professionalID, result.AppointmentCount, result.CommissionAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
