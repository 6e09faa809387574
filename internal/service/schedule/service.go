package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	scheduleRepo "github.com/salonkit/booking-service/internal/infra/storage/schedule"
	"github.com/salonkit/booking-service/internal/service/schedule/models"
)

// Service сервис для работы с расписанием и конфигурацией салона
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает расписание и конфигурацию салона
func (s *Service) Get(ctx context.Context, shopID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for shop=%d", shopID)

	if shopID <= 0 {
		return nil, fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	config, err := s.scheduleRepo.GetShopConfig(ctx, shopID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShopNotFound) {
			s.logger.Warn("Get: shop id=%d not found", shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("Get: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	week, err := s.scheduleRepo.GetOperatingSchedule(ctx, shopID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			// Салон без расписания считается закрытым всю неделю
			s.logger.Warn("Get: shop id=%d has no operating schedule, returning closed week", shopID)
			week = &domain.OperatingSchedule{}
		} else {
			s.logger.Error("Get: failed to get operating schedule for shop=%d: %v", shopID, err)
			return nil, fmt.Errorf("%w: Get - failed to get operating schedule: %v", ErrInternal, err)
		}
	}

	return models.FromDomain(config, week), nil
}

// Update обновляет расписание и конфигурацию салона в одной транзакции.
// Поддерживает частичное обновление конфигурации.
func (s *Service) Update(ctx context.Context, shopID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for shop=%d", shopID)

	if shopID <= 0 {
		return nil, fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	var week *domain.OperatingSchedule
	if req.Week != nil {
		week = req.Week.ToDomainWeek()
		if err := week.Validate(); err != nil {
			s.logger.Warn("Update: schedule validation failed for shop=%d: %v", shopID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}

	var config *domain.ShopConfig

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.scheduleRepo.GetShopConfig(txCtx, shopID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrShopNotFound) {
				s.logger.Warn("Update: shop id=%d not found", shopID)
				return ErrShopNotFound
			}
			s.logger.Error("Update: repository error for shop=%d: %v", shopID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		req.ApplyToConfig(current)

		// Включение лояльности без настроенных баллов получает значение по умолчанию
		if current.LoyaltyEnabled && current.PointsPerService <= 0 && req.PointsPerService == nil {
			current.PointsPerService = domain.DefaultPointsPerService
		}

		if err := validateConfig(current); err != nil {
			s.logger.Warn("Update: config validation failed for shop=%d: %v", shopID, err)
			return err
		}

		if err := s.scheduleRepo.UpdateShopConfig(txCtx, current); err != nil {
			s.logger.Error("Update: failed to update config for shop=%d: %v", shopID, err)
			return fmt.Errorf("%w: Update - failed to update config: %v", ErrInternal, err)
		}

		if week != nil {
			if err := s.scheduleRepo.UpsertOperatingSchedule(txCtx, shopID, week); err != nil {
				s.logger.Error("Update: failed to upsert schedule for shop=%d: %v", shopID, err)
				return fmt.Errorf("%w: Update - failed to upsert schedule: %v", ErrInternal, err)
			}
		} else {
			existing, err := s.scheduleRepo.GetOperatingSchedule(txCtx, shopID)
			if err != nil {
				if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
					existing = &domain.OperatingSchedule{}
				} else {
					s.logger.Error("Update: failed to get operating schedule for shop=%d: %v", shopID, err)
					return fmt.Errorf("%w: Update - failed to get operating schedule: %v", ErrInternal, err)
				}
			}
			week = existing
		}

		config = current
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated schedule for shop=%d", shopID)
	return models.FromDomain(config, week), nil
}

// validateConfig валидирует параметры конфигурации салона
func validateConfig(cfg *domain.ShopConfig) error {
	if cfg.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || cfg.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	if cfg.MinBookingNoticeMinutes < 0 || cfg.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxBookingNoticeMinutes)
	}

	if cfg.PointsPerService < 0 {
		return fmt.Errorf("%w: pointsPerService must not be negative", ErrInvalidInput)
	}

	return nil
}
