package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	catalogRepo "github.com/salonkit/booking-service/internal/infra/storage/catalog"
	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID вместе с продажами товаров
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// ListByShopAndDate получает записи салона на календарный день.
// Опционально фильтрует по мастеру.
func (s *Service) ListByShopAndDate(ctx context.Context, req *models.ListShopAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByShopAndDate: fetching appointments for shop=%d, date=%s",
		req.ShopID, req.Date.Format(domain.DateFormat))

	if req.ShopID <= 0 {
		return nil, fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var appointments []*domain.Appointment
	var err error

	if req.ProfessionalID != nil {
		appointments, err = s.appointmentRepo.ListByProfessionalAndDate(ctx, *req.ProfessionalID, req.Date)
	} else {
		appointments, err = s.appointmentRepo.ListByShopAndDate(ctx, req.ShopID, req.Date)
	}
	if err != nil {
		s.logger.Error("ListByShopAndDate: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ListByShopAndDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByShopAndDate: fetched %d appointments for shop=%d", len(appointments), req.ShopID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Start переводит запись в статус in_progress
func (s *Service) Start(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Start: starting appointment id=%d", id)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Start: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Start: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Start - repository error: %v", ErrInternal, err)
		}

		if err := domain.ValidateTransition(appt.Status, domain.StatusInProgress); err != nil {
			s.logger.Warn("Start: transition %s -> in_progress is not allowed for id=%d", appt.Status, id)
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusInProgress, nil); err != nil {
			s.logger.Error("Start: failed to update status for id=%d: %v", id, err)
			return fmt.Errorf("%w: Start - failed to update status: %v", ErrInternal, err)
		}

		appt.Status = domain.StatusInProgress
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Start: appointment id=%d is now in progress", id)
	return models.FromDomainAppointment(result), nil
}

// Delete безусловно удаляет запись любого статуса и освобождает слот.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d", id)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.appointmentRepo.GetByID(txCtx, id); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Delete: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if err := s.appointmentRepo.Delete(txCtx, id); err != nil {
			s.logger.Error("Delete: failed to delete appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to delete: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: appointment id=%d deleted", id)
		return nil
	})
}

// AddProductSale добавляет продажу товара к записи.
// Цена за единицу фиксируется из каталога на момент продажи.
func (s *Service) AddProductSale(ctx context.Context, req *models.AddProductSaleRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AddProductSale: appointment=%d, product=%d, quantity=%d",
		req.AppointmentID, req.ProductID, req.Quantity)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.ProductID <= 0 {
		return nil, fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("AddProductSale: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("AddProductSale: repository error for appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: AddProductSale - repository error: %v", ErrInternal, err)
		}

		if appt.IsCompleted() {
			s.logger.Warn("AddProductSale: appointment id=%d is completed", req.AppointmentID)
			return ErrAppointmentCompleted
		}

		price, err := s.catalogRepo.GetProductPrice(txCtx, appt.ShopID, req.ProductID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrProductNotFound) {
				s.logger.Warn("AddProductSale: product id=%d not found in shop=%d", req.ProductID, appt.ShopID)
				return ErrProductNotFound
			}
			s.logger.Error("AddProductSale: failed to get product price id=%d: %v", req.ProductID, err)
			return fmt.Errorf("%w: AddProductSale - failed to get product price: %v", ErrInternal, err)
		}

		sale := &domain.ProductSale{
			AppointmentID: appt.ID,
			ProductID:     req.ProductID,
			Quantity:      req.Quantity,
			UnitPrice:     price,
		}

		created, err := s.appointmentRepo.AddProductSale(txCtx, sale)
		if err != nil {
			s.logger.Error("AddProductSale: failed to save sale for appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: AddProductSale - failed to save sale: %v", ErrInternal, err)
		}

		appt.Products = append(appt.Products, *created)
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("AddProductSale: sale added to appointment id=%d", req.AppointmentID)
	return models.FromDomainAppointment(result), nil
}
