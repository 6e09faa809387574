package complete_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
)

// UseCase use case для завершения записи.
// Завершение фиксирует способ расчета и начисляет баллы лояльности
// одной атомарной транзакцией.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	clientRepo      ClientRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		clientRepo:      clientRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case завершения записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteAppointment: appointment=%d, settlement=%s", req.AppointmentID, req.SettlementMethod)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		uc.logger.Warn("CompleteAppointment: appointmentID must be positive, got %d", req.AppointmentID)
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	settlement, err := domain.ParseSettlementMethod(req.SettlementMethod)
	if err != nil {
		uc.logger.Warn("CompleteAppointment: invalid settlement method %q", req.SettlementMethod)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettlementMethod, err)
	}

	var result *domain.Appointment
	var pointsAccrued int

	// 2. Переход статуса и начисление баллов в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем запись с блокировкой строки (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CompleteAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CompleteAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Проверяем допустимость перехода
		if err := domain.ValidateTransition(appt.Status, domain.StatusCompleted); err != nil {
			uc.logger.Warn("CompleteAppointment: transition %s -> completed is not allowed for id=%d",
				appt.Status, appt.ID)
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		// 2.3. Фиксируем завершение со способом расчета
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.StatusCompleted, &settlement); err != nil {
			uc.logger.Error("CompleteAppointment: failed to update status for id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		appt.Status = domain.StatusCompleted
		appt.SettlementMethod = &settlement

		// 2.4. Начисляем баллы лояльности, если программа включена
		config, err := uc.scheduleRepo.GetShopConfig(txCtx, appt.ShopID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrShopNotFound) {
				uc.logger.Warn("CompleteAppointment: shop id=%d not found, skipping loyalty accrual", appt.ShopID)
				result = appt
				return nil
			}
			uc.logger.Error("CompleteAppointment: failed to get shop config: %v", err)
			return fmt.Errorf("%w: failed to get shop config: %v", ErrInternal, err)
		}

		if config.LoyaltyEnabled && config.PointsPerService > 0 {
			balance, err := uc.clientRepo.IncrementPoints(txCtx, appt.ClientID, config.PointsPerService)
			if err != nil {
				// Отсутствие клиента не отменяет завершение записи
				if errors.Is(err, clientRepo.ErrClientNotFound) {
					uc.logger.Warn("CompleteAppointment: client id=%d not found, skipping loyalty accrual", appt.ClientID)
					result = appt
					return nil
				}
				uc.logger.Error("CompleteAppointment: failed to accrue points for client id=%d: %v", appt.ClientID, err)
				return fmt.Errorf("%w: failed to accrue points: %v", ErrInternal, err)
			}

			pointsAccrued = config.PointsPerService
			uc.logger.Info("CompleteAppointment: accrued %d points to client id=%d, balance=%d",
				config.PointsPerService, appt.ClientID, balance)
		}

		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CompleteAppointment: appointment id=%d completed", result.ID)

	return &Response{
		ID:               result.ID,
		ShopID:           result.ShopID,
		ClientID:         result.ClientID,
		ProfessionalID:   result.ProfessionalID,
		ServiceID:        result.ServiceID,
		Date:             result.Date,
		StartTime:        result.StartTime,
		Status:           string(result.Status),
		SettlementMethod: string(settlement),
		ServiceName:      result.ServiceName,
		ServicePrice:     result.ServicePrice,
		PointsAccrued:    pointsAccrued,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}
