package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
)

// AddressInput is the service address as submitted
type AddressInput struct {
	Full string `json:"full" validate:"required"`
}

// BookingRequest is what a user submits to book a worker
type BookingRequest struct {
	WorkerID    string       `json:"worker_id" validate:"required"`
	WorkerName  string       `json:"worker_name"`
	Profession  string       `json:"profession"`
	Description string       `json:"description" validate:"required"`
	Address     AddressInput `json:"address"`
	Date        string       `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string       `json:"time" validate:"required,datetime=15:04"`
}

func (r *BookingRequest) trim() {
	r.WorkerID = strings.TrimSpace(r.WorkerID)
	r.WorkerName = strings.TrimSpace(r.WorkerName)
	r.Profession = strings.TrimSpace(r.Profession)
	r.Description = strings.TrimSpace(r.Description)
	r.Address.Full = strings.TrimSpace(r.Address.Full)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
}

var bookingMessages = map[string]string{
	"worker_id": "Worker information not found. Please try again.",
	"date":      "Date must be in YYYY-MM-DD format",
	"time":      "Time must be in HH:MM format",
}

// Messages for booking failures
const (
	msgMissingSession = "User ID not found. Please try logging in again."
	msgPastDate       = "Booking date cannot be in the past"
	msgCreateFailed   = "Failed to create order. Please try again."
)

// BookingService turns a booking request into a pending order
type BookingService struct {
	orders   store.OrderStore
	accounts store.AccountStore
	events   EventPublisher
	now      func() time.Time
}

var bookingServiceInstance *BookingService

// NewBookingService creates a BookingService using the system clock
func NewBookingService(orders store.OrderStore, accounts store.AccountStore, events EventPublisher) *BookingService {
	return &BookingService{
		orders:   orders,
		accounts: accounts,
		events:   events,
		now:      time.Now,
	}
}

// InitBookingService installs the global booking service
func InitBookingService(orders store.OrderStore, accounts store.AccountStore, events EventPublisher) *BookingService {
	bookingServiceInstance = NewBookingService(orders, accounts, events)
	return bookingServiceInstance
}

// GetBookingService returns the installed booking service
func GetBookingService() *BookingService {
	return bookingServiceInstance
}

// SetBookingService replaces the booking service (primarily for testing)
func SetBookingService(s *BookingService) {
	bookingServiceInstance = s
}

// WithClock replaces the clock used for the past-date check
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Submit validates req and creates exactly one pending order for the session
// user. Nothing is written when validation fails.
func (s *BookingService) Submit(ctx context.Context, sess session.Session, req BookingRequest) (*models.Order, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	req.trim()
	if verr := validateInput(&req, bookingMessages); verr != nil {
		return nil, verr
	}

	// both sides are YYYY-MM-DD, so string order is date order
	if req.Date < earliestBookableDate(s.now()) {
		return nil, validationError(msgPastDate)
	}

	order := &models.Order{
		UserID:      sess.UID,
		WorkerID:    req.WorkerID,
		WorkerName:  req.WorkerName,
		Profession:  req.Profession,
		Description: req.Description,
		Address:     models.Address{Full: req.Address.Full},
		Date:        req.Date,
		Time:        req.Time,
		Status:      models.StatusPending,
		Reviewed:    false,
	}
	s.fillWorkerSnapshot(ctx, order)

	if _, err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, storeFailure(err, "create orders", msgCreateFailed)
	}

	log.Printf("Order %s created for worker %s", order.ID, order.WorkerID)
	publishOrderEvent(ctx, s.events, EventOrderCreated, order)
	return order, nil
}

// fillWorkerSnapshot copies display fields from the worker when the request
// omitted them. A missing worker leaves them empty.
func (s *BookingService) fillWorkerSnapshot(ctx context.Context, order *models.Order) {
	if order.WorkerName != "" && order.Profession != "" {
		return
	}
	if s.accounts == nil {
		return
	}

	worker, err := s.accounts.GetWorker(ctx, order.WorkerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to read worker %s for booking snapshot: %v", order.WorkerID, err)
		}
		return
	}

	if order.WorkerName == "" {
		order.WorkerName = worker.Name
	}
	if order.Profession == "" {
		order.Profession = worker.Profession
	}
}
