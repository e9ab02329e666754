package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
)

// NoOrdersMessage accompanies an empty worker order list
const NoOrdersMessage = "No orders yet"

// Messages for worker order operations
const (
	msgLoadOrdersFailed  = "Failed to load orders"
	msgUpdateOrderFailed = "Failed to update order status"
	msgNotYourOrder      = "You can only manage orders assigned to you"
)

// WorkerOrder is an order as shown to its worker, with the booking user's
// contact details
type WorkerOrder struct {
	models.Order
	Customer models.Contact `json:"customer"`
}

// WorkerOrderService lists a worker's orders and moves them out of pending
type WorkerOrderService struct {
	orders   store.OrderStore
	accounts store.AccountStore
	events   EventPublisher
}

var workerOrderServiceInstance *WorkerOrderService

// NewWorkerOrderService creates a WorkerOrderService
func NewWorkerOrderService(orders store.OrderStore, accounts store.AccountStore, events EventPublisher) *WorkerOrderService {
	return &WorkerOrderService{orders: orders, accounts: accounts, events: events}
}

// InitWorkerOrderService installs the global worker order service
func InitWorkerOrderService(orders store.OrderStore, accounts store.AccountStore, events EventPublisher) *WorkerOrderService {
	workerOrderServiceInstance = NewWorkerOrderService(orders, accounts, events)
	return workerOrderServiceInstance
}

// GetWorkerOrderService returns the installed worker order service
func GetWorkerOrderService() *WorkerOrderService {
	return workerOrderServiceInstance
}

// SetWorkerOrderService replaces the worker order service (primarily for testing)
func SetWorkerOrderService(s *WorkerOrderService) {
	workerOrderServiceInstance = s
}

// ListOrders returns the session worker's orders, pending first and then by
// date descending. Ties keep store order.
func (s *WorkerOrderService) ListOrders(ctx context.Context, sess session.Session) ([]WorkerOrder, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, "Worker ID not found", err)
	}

	orders, err := s.orders.QueryOrders(ctx, store.OrderFieldWorker, sess.UID)
	if err != nil {
		return nil, storeFailure(err, "view orders", msgLoadOrdersFailed)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return pendingFirst(&orders[i], &orders[j])
	})

	contacts := make(map[string]models.Contact)
	result := make([]WorkerOrder, 0, len(orders))
	for _, order := range orders {
		contact, ok := contacts[order.UserID]
		if !ok {
			contact = s.lookupContact(ctx, order.UserID)
			contacts[order.UserID] = contact
		}
		result = append(result, WorkerOrder{Order: order, Customer: contact})
	}
	return result, nil
}

// lookupContact degrades to placeholders when the user cannot be read
func (s *WorkerOrderService) lookupContact(ctx context.Context, userID string) models.Contact {
	if userID == "" || s.accounts == nil {
		return models.ContactOf(nil)
	}
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to read user %s for order listing: %v", userID, err)
		}
		return models.ContactOf(nil)
	}
	return models.ContactOf(user)
}

// Accept moves a pending order assigned to the session worker to accepted
func (s *WorkerOrderService) Accept(ctx context.Context, sess session.Session, orderID string) (*models.Order, error) {
	return s.decide(ctx, sess, orderID, models.StatusAccepted)
}

// Decline moves a pending order assigned to the session worker to declined
func (s *WorkerOrderService) Decline(ctx context.Context, sess session.Session, orderID string) (*models.Order, error) {
	return s.decide(ctx, sess, orderID, models.StatusDeclined)
}

func (s *WorkerOrderService) decide(ctx context.Context, sess session.Session, orderID string, target models.OrderStatus) (*models.Order, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, "Worker ID not found", err)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !sess.Is(order.WorkerID) {
		return nil, newServiceError(CodeForbidden, msgNotYourOrder, nil)
	}

	if err := s.transition(ctx, order, target); err != nil {
		return nil, err
	}

	eventType := EventOrderAccepted
	if target == models.StatusDeclined {
		eventType = EventOrderDeclined
	}
	publishOrderEvent(ctx, s.events, eventType, order)
	return order, nil
}

// Complete moves an accepted order to completed. It is driven by the
// back office, not by the worker.
func (s *WorkerOrderService) Complete(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, order, models.StatusCompleted); err != nil {
		return nil, err
	}
	publishOrderEvent(ctx, s.events, EventOrderCompleted, order)
	return order, nil
}

func (s *WorkerOrderService) loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, newServiceError(CodeOrderNotFound, msgOrderNotFound, nil)
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, loadFailure(err, CodeOrderNotFound, msgOrderNotFound, "view orders", msgLoadOrdersFailed)
	}
	return order, nil
}

// transition writes target only if the stored status still equals the
// status order was read with, then patches order in memory
func (s *WorkerOrderService) transition(ctx context.Context, order *models.Order, target models.OrderStatus) error {
	current := order.Status
	if !current.CanTransitionTo(target) {
		return invalidTransition(current, target, nil)
	}

	err := s.orders.UpdateOrder(ctx, order.ID, store.OrderPatch{
		Status:         &target,
		ExpectedStatus: &current,
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrConflict):
		return invalidTransition(current, target, err)
	case errors.Is(err, store.ErrNotFound):
		return newServiceError(CodeOrderNotFound, msgOrderNotFound, err)
	default:
		return storeFailure(err, "update orders", msgUpdateOrderFailed)
	}

	order.Status = target
	log.Printf("Order %s moved from %s to %s", order.ID, current, target)
	return nil
}

func invalidTransition(from, to models.OrderStatus, err error) *ServiceError {
	msg := fmt.Sprintf("Cannot change order from %s to %s", from, to)
	if err != nil {
		msg = "Order status changed meanwhile. Please refresh and try again."
	}
	return newServiceError(CodeInvalidTransition, msg, err)
}
