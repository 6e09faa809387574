package commission_report

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
)

// UseCase use case для построения отчета по комиссии мастера за период
type UseCase struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	catalogRepo      CatalogRepository
	scheduleRepo     ScheduleRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		catalogRepo:      catalogRepo,
		scheduleRepo:     scheduleRepo,
		logger:           logger,
	}
}

// Execute выполняет use case построения отчета.
// База комиссии собирается по актуальным ценам каталога: если услуга
// была переименована или удалена, её вклад считается равным нулю.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommissionReport: shop=%d, professional=%d, period=%s..%s",
		req.ShopID, req.ProfessionalID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CommissionReport: validation failed: %v", err)
		return nil, err
	}

	// 2. Конфигурация салона (флаги базы комиссии)
	config, err := uc.scheduleRepo.GetShopConfig(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShopNotFound) {
			uc.logger.Warn("CommissionReport: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CommissionReport: failed to get shop config: %v", err)
		return nil, fmt.Errorf("%w: failed to get shop config: %v", ErrInternal, err)
	}

	// 3. Мастер и его ставка комиссии
	professional, err := uc.professionalRepo.GetByID(ctx, req.ShopID, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CommissionReport: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CommissionReport: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 4. Завершенные записи за период
	appointments, err := uc.appointmentRepo.ListCompletedByProfessionalAndPeriod(
		ctx, req.ProfessionalID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("CommissionReport: failed to list completed appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list completed appointments: %v", ErrInternal, err)
	}

	resp := &Response{
		ShopID:         req.ShopID,
		ProfessionalID: req.ProfessionalID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CommissionRate: professional.CommissionRate,
		Lines:          make([]Line, 0, len(appointments)),
	}

	// 5. Считаем базу комиссии по актуальным ценам каталога
	for _, appt := range appointments {
		price, err := uc.catalogRepo.GetServicePriceByName(ctx, req.ShopID, appt.ServiceName)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				// Услуга удалена из каталога, вклад нулевой
				uc.logger.Warn("CommissionReport: service %q not found in catalog, counting as zero", appt.ServiceName)
				price = 0
			} else {
				uc.logger.Error("CommissionReport: failed to get price for service %q: %v", appt.ServiceName, err)
				return nil, fmt.Errorf("%w: failed to get service price: %v", ErrInternal, err)
			}
		}

		productsTotal := appt.ProductsTotal()
		commissionable := isCommissionable(appt, config)

		line := Line{
			AppointmentID:  appt.ID,
			Date:           appt.Date,
			ServiceName:    appt.ServiceName,
			ServicePrice:   price,
			ProductsTotal:  productsTotal,
			Settlement:     settlementString(appt),
			Commissionable: commissionable,
		}
		resp.Lines = append(resp.Lines, line)

		resp.ServiceRevenue += price
		resp.ProductRevenue += productsTotal
		resp.AppointmentCount++

		if !commissionable {
			continue
		}

		resp.CommissionBase += price
		if config.CommissionIncludesProducts {
			resp.CommissionBase += productsTotal
		}
	}

	resp.CommissionAmount = resp.CommissionBase * professional.CommissionRate

	uc.logger.Info("CommissionReport: professional=%d, %d appointments, base=%.2f, commission=%.2f",
		req.ProfessionalID, resp.AppointmentCount, resp.CommissionBase, resp.CommissionAmount)

	return resp, nil
}

// isCommissionable определяет, входит ли запись в базу комиссии.
// Записи по абонементу учитываются только при включенном флаге салона.
func isCommissionable(appt *domain.Appointment, config *domain.ShopConfig) bool {
	if appt.SettlementMethod == nil {
		return true
	}
	if *appt.SettlementMethod == domain.SettlementSubscription {
		return config.CommissionOnSubscription
	}
	return true
}

func settlementString(appt *domain.Appointment) string {
	if appt.SettlementMethod == nil {
		return ""
	}
	return string(*appt.SettlementMethod)
}

func validateRequest(req *Request) error {
	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidPeriod)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidPeriod)
	}

	return nil
}
