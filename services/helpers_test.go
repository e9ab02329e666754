package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
)

// mockPublisher records published order events
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}

// expectEvent registers one expected Publish of eventType for orderID.
// An empty orderID matches any order.
func (m *mockPublisher) expectEvent(eventType, orderID string) *mock.Call {
	return m.On("Publish", mock.Anything, mock.MatchedBy(func(e OrderEvent) bool {
		return e.Type == eventType && (orderID == "" || e.OrderID == orderID)
	})).Return(nil).Once()
}

// failingOrderStore fails every call with err
type failingOrderStore struct {
	err error
}

func (f failingOrderStore) CreateOrder(context.Context, *models.Order) (string, error) {
	return "", f.err
}

func (f failingOrderStore) QueryOrders(context.Context, store.OrderField, string) ([]models.Order, error) {
	return nil, f.err
}

func (f failingOrderStore) GetOrder(context.Context, string) (*models.Order, error) {
	return nil, f.err
}

func (f failingOrderStore) UpdateOrder(context.Context, string, store.OrderPatch) error {
	return f.err
}

func mustSession(t *testing.T, uid string) session.Session {
	t.Helper()
	sess, err := session.New(uid)
	require.NoError(t, err)
	return sess
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(9 * time.Hour) }
}

// seedOrder stores an order with the given status and date
func seedOrder(t *testing.T, orders store.OrderStore, userID, workerID string, status models.OrderStatus, date string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:      userID,
		WorkerID:    workerID,
		WorkerName:  "Ravi",
		Profession:  "Plumber",
		Description: "Fix the kitchen tap",
		Address:     models.Address{Full: "12 Hill Road"},
		Date:        date,
		Time:        "10:30",
		Status:      status,
	}
	_, err := orders.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return order
}

func requireCode(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected a ServiceError, got %T: %v", err, err)
	require.Equal(t, code, se.Code, "message: %s", se.Message)
	return se
}
