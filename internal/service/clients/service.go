package clients

import (
	"context"
	"errors"
	"fmt"

	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
)

// LoyaltyResponse ответ с балансом баллов клиента
type LoyaltyResponse struct {
	ClientID      int64  `json:"clientId"`
	Name          string `json:"name"`
	PointsBalance int    `json:"pointsBalance"`
}

// Service сервис для работы с клиентами
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// GetLoyalty получает баланс баллов лояльности клиента
func (s *Service) GetLoyalty(ctx context.Context, clientID int64) (*LoyaltyResponse, error) {
	s.logger.Info("GetLoyalty: fetching loyalty balance for client=%d", clientID)

	if clientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("GetLoyalty: client id=%d not found", clientID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetLoyalty: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetLoyalty - repository error: %v", ErrInternal, err)
	}

	return &LoyaltyResponse{
		ClientID:      client.ID,
		Name:          client.Name,
		PointsBalance: client.PointsBalance,
	}, nil
}
