package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	clientRepo "github.com/salonkit/booking-service/internal/infra/storage/client"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type stubClientRepo struct {
	clients map[int64]*domain.Client
}

func (r *stubClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, clientRepo.ErrClientNotFound
	}
	return client, nil
}

func (r *stubClientRepo) GetPointsBalance(_ context.Context, id int64) (int, error) {
	client, ok := r.clients[id]
	if !ok {
		return 0, clientRepo.ErrClientNotFound
	}
	return client.PointsBalance, nil
}

func TestGetLoyalty(t *testing.T) {
	repo := &stubClientRepo{clients: map[int64]*domain.Client{
		7: {ID: 7, Name: "Anna", PointsBalance: 12},
	}}

	svc := NewService(repo, noopLogger{})

	resp, err := svc.GetLoyalty(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ClientID)
	assert.Equal(t, "Anna", resp.Name)
	assert.Equal(t, 12, resp.PointsBalance)
}

func TestGetLoyalty_ClientNotFound(t *testing.T) {
	svc := NewService(&stubClientRepo{clients: map[int64]*domain.Client{}}, noopLogger{})

	_, err := svc.GetLoyalty(context.Background(), 404)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetLoyalty_InvalidID(t *testing.T) {
	svc := NewService(&stubClientRepo{clients: map[int64]*domain.Client{}}, noopLogger{})

	_, err := svc.GetLoyalty(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
