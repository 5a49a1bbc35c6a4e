package jobs_test

import (
	"context"
	"errors"
	"testing"

	"gudang/internal/jobs"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPurger struct {
	mock.Mock
}

func (m *MockPurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestSessionSweeper_Sweep(t *testing.T) {
	purger := new(MockPurger)
	sweeper, err := jobs.NewSessionSweeper(purger, "@every 1h", zap.NewNop().Sugar())
	require.NoError(t, err)

	purger.On("PurgeExpiredSessions", mock.Anything).Return(int64(2), nil).Once()
	sweeper.Sweep()

	purger.On("PurgeExpiredSessions", mock.Anything).Return(int64(0), errors.New("database error")).Once()
	sweeper.Sweep()

	purger.AssertExpectations(t)
}

func TestSessionSweeper_StartStop(t *testing.T) {
	sweeper, err := jobs.NewSessionSweeper(new(MockPurger), "@every 1h", zap.NewNop().Sugar())
	require.NoError(t, err)
	sweeper.Start()
	sweeper.Stop()
}

func TestNewSessionSweeper_InvalidSchedule(t *testing.T) {
	_, err := jobs.NewSessionSweeper(new(MockPurger), "every so often", zap.NewNop().Sugar())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session sweep schedule")
}

func TestInventoryAuditHandler(t *testing.T) {
	handler := jobs.InventoryAuditHandler(zap.NewNop().Sugar())

	err := handler(amqp.Delivery{
		RoutingKey: "inventory.created",
		Body:       []byte(`{"event":"inventory.created","productId":4,"name":"Widget","price":2.5,"quantity":3}`),
	})
	assert.NoError(t, err)

	err = handler(amqp.Delivery{RoutingKey: "inventory.deleted", Body: []byte(`{"productId":4}`)})
	assert.NoError(t, err)

	err = handler(amqp.Delivery{Body: []byte(`not json`)})
	assert.Error(t, err)
}
