package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/calendar"
	"github.com/salonkit/booking-service/internal/domain"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	scheduleRepo     ScheduleRepository
	catalogRepo      CatalogRepository
	professionalRepo ProfessionalRepository
	clientRepo       ClientRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	professionalRepo ProfessionalRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		scheduleRepo:     scheduleRepo,
		catalogRepo:      catalogRepo,
		professionalRepo: professionalRepo,
		clientRepo:       clientRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи.
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два конкурирующих запроса на один слот не могут пройти проверку одновременно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: shop=%d, client=%d, professional=%d, service=%d, date=%s, time=%s",
		req.ShopID, req.ClientID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем начальный статус
	initialStatus, err := resolveInitialStatus(req.Status)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid initial status %q", req.Status)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 3. Проверяем существование клиента
	if _, err := uc.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 4. Проверяем существование мастера в салоне
	if _, err := uc.professionalRepo.GetByID(ctx, req.ShopID, req.ProfessionalID); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 5. Получаем услугу и проверяем, что мастер её выполняет
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsEligible(req.ProfessionalID) {
		uc.logger.Warn("CreateAppointment: professional id=%d is not eligible for service id=%d",
			req.ProfessionalID, req.ServiceID)
		return nil, ErrProfessionalNotEligible
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Конфигурация салона (шаг сетки, минимальное время до записи)
		config, err := uc.scheduleRepo.GetShopConfig(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrShopNotFound) {
				uc.logger.Warn("CreateAppointment: shop id=%d not found", req.ShopID)
				return ErrShopNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get shop config: %v", err)
			return fmt.Errorf("%w: failed to get shop config: %v", ErrInternal, err)
		}

		// 6.2. Валидация даты
		if err := validateDate(req.Date, now); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 6.3. Расписание на день недели
		schedule, err := uc.scheduleRepo.GetOperatingSchedule(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("CreateAppointment: shop id=%d has no operating schedule", req.ShopID)
				return ErrShopNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get operating schedule: %v", err)
			return fmt.Errorf("%w: failed to get operating schedule: %v", ErrInternal, err)
		}

		day := schedule.ForWeekday(req.Date.Weekday())
		if !day.Open {
			uc.logger.Warn("CreateAppointment: shop is closed on %s", req.Date.Format(domain.DateFormat))
			return ErrShopClosed
		}

		// 6.4. Валидация времени записи (minBookingNoticeMinutes)
		if err := validateAppointmentTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: appointment time validation failed: %v", err)
			return err
		}

		// 6.5. Сетка кандидатов на день
		candidates, err := calendar.GenerateDaySlots(day, config.SlotIntervalMinutes)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to generate day slots: %v", err)
			return fmt.Errorf("%w: failed to generate day slots: %v", ErrInternal, err)
		}

		// 6.6. Записи мастера на день с блокировкой строк (FOR UPDATE)
		existing, err := uc.appointmentRepo.ListByProfessionalAndDate(txCtx, req.ProfessionalID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}

		// 6.7. Проверяем, что запрошенный слот входит в множество доступных
		available := calendar.AvailableSlots(calendar.AvailabilityInput{
			Candidates:             candidates,
			Existing:               existing,
			ServiceDurationMinutes: service.DurationMinutes,
			IntervalMinutes:        config.SlotIntervalMinutes,
			Day:                    day,
		})

		if !containsSlot(available, req.StartTime) {
			uc.logger.Warn("CreateAppointment: slot %s is not available for professional=%d on %s",
				req.StartTime, req.ProfessionalID, req.Date.Format(domain.DateFormat))
			return ErrSlotUnavailable
		}

		// 6.8. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			ShopID:         req.ShopID,
			ClientID:       req.ClientID,
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			Status:         initialStatus,
			// Денормализация данных услуги
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			// Заметки
			Notes: req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		ShopID:          result.ShopID,
		ClientID:        result.ClientID,
		ProfessionalID:  result.ProfessionalID,
		ServiceID:       result.ServiceID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
