package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/calendar"
	"github.com/salonkit/booking-service/internal/domain"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	professionalRepo "github.com/salonkit/booking-service/internal/infra/storage/professional"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
	"github.com/salonkit/booking-service/pkg/types"
)

// UseCase use case для получения доступных слотов мастера на день
type UseCase struct {
	appointmentRepo  AppointmentRepository
	scheduleRepo     ScheduleRepository
	catalogRepo      CatalogRepository
	professionalRepo ProfessionalRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	professionalRepo ProfessionalRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		scheduleRepo:     scheduleRepo,
		catalogRepo:      catalogRepo,
		professionalRepo: professionalRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%d, professional=%d, service=%d, date=%s",
		req.ShopID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Конфигурация салона (шаг сетки)
	config, err := uc.scheduleRepo.GetShopConfig(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop config: %v", err)
		return nil, fmt.Errorf("%w: failed to get shop config: %v", ErrInternal, err)
	}

	// 3. Мастер существует и активен в этом салоне
	if _, err := uc.professionalRepo.GetByID(ctx, req.ShopID, req.ProfessionalID); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 4. Услуга существует и мастер может её выполнять
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsEligible(req.ProfessionalID) {
		uc.logger.Warn("GetAvailableSlots: professional id=%d is not eligible for service id=%d",
			req.ProfessionalID, req.ServiceID)
		return nil, ErrProfessionalNotEligible
	}

	// 5. Расписание на день недели
	schedule, err := uc.scheduleRepo.GetOperatingSchedule(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%d has no operating schedule", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get operating schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get operating schedule: %v", ErrInternal, err)
	}

	day := schedule.ForWeekday(req.Date.Weekday())
	if !day.Open {
		uc.logger.Info("GetAvailableSlots: shop is closed on %s", req.Date.Format(domain.DateFormat))
		return uc.closedResponse(req, service), nil
	}

	// 6. Генерируем сетку кандидатов
	candidates, err := calendar.GenerateDaySlots(day, config.SlotIntervalMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate day slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate day slots: %v", ErrInternal, err)
	}

	// 7. Существующие записи мастера на день
	existing, err := uc.appointmentRepo.ListByProfessionalAndDate(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 8. Фильтрация доступности
	available := calendar.AvailableSlots(calendar.AvailabilityInput{
		Candidates:             candidates,
		Existing:               existing,
		ServiceDurationMinutes: service.DurationMinutes,
		IntervalMinutes:        config.SlotIntervalMinutes,
		Day:                    day,
	})

	// 9. Для сегодняшней даты убираем слоты, нарушающие минимальное
	// время до записи
	available = filterPastSlots(available, req.Date, now, config.MinBookingNoticeMinutes)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for professional=%d, date=%s",
		len(available), len(candidates), req.ProfessionalID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ShopID:          req.ShopID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           available,
	}, nil
}

func (uc *UseCase) closedResponse(req *Request, service *domain.Service) *Response {
	return &Response{
		Date:            req.Date,
		ShopID:          req.ShopID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Closed:          true,
		Slots:           []types.TimeString{},
	}
}
