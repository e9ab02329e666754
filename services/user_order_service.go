package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Messages for user order operations
const (
	msgRatingRange      = "Rating must be between 1 and 5"
	msgRatingNotAllowed = "Only completed orders can be rated"
	msgAlreadyRated     = "This order has already been rated"
	msgRateFailed       = "Failed to submit rating and review"
	msgNotYourBooking   = "You can only rate your own orders"
)

// UserOrder is an order as shown to the user who booked it
type UserOrder struct {
	models.Order
	Badge   models.Badge `json:"badge"`
	CanRate bool         `json:"can_rate"`
}

// RatingRequest is a rating with an optional written review
type RatingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// UserOrderService lists a user's orders and records ratings
type UserOrderService struct {
	orders       store.OrderStore
	events       EventPublisher
	markReviewed bool
}

var userOrderServiceInstance *UserOrderService

// NewUserOrderService creates a UserOrderService. When markReviewed is set a
// rating also sets the order's reviewed flag.
func NewUserOrderService(orders store.OrderStore, events EventPublisher, markReviewed bool) *UserOrderService {
	return &UserOrderService{orders: orders, events: events, markReviewed: markReviewed}
}

// InitUserOrderService installs the global user order service
func InitUserOrderService(orders store.OrderStore, events EventPublisher, markReviewed bool) *UserOrderService {
	userOrderServiceInstance = NewUserOrderService(orders, events, markReviewed)
	return userOrderServiceInstance
}

// GetUserOrderService returns the installed user order service
func GetUserOrderService() *UserOrderService {
	return userOrderServiceInstance
}

// SetUserOrderService replaces the user order service (primarily for testing)
func SetUserOrderService(s *UserOrderService) {
	userOrderServiceInstance = s
}

// ListOrders returns the session user's orders by date descending, each with
// its status badge
func (s *UserOrderService) ListOrders(ctx context.Context, sess session.Session) ([]UserOrder, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	orders, err := s.orders.QueryOrders(ctx, store.OrderFieldUser, sess.UID)
	if err != nil {
		return nil, storeFailure(err, "view orders", msgLoadOrdersFailed)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return dateAfter(&orders[i], &orders[j])
	})

	result := make([]UserOrder, 0, len(orders))
	for _, order := range orders {
		result = append(result, UserOrder{
			Order:   order,
			Badge:   order.Status.Badge(),
			CanRate: order.CanBeRated(),
		})
	}
	return result, nil
}

// Rate attaches a rating and review to a completed, unrated order of the
// session user
func (s *UserOrderService) Rate(ctx context.Context, sess session.Session, orderID string, req RatingRequest) (*models.Order, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, validationError(msgRatingRange)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, loadFailure(err, CodeOrderNotFound, msgOrderNotFound, "view orders", msgLoadOrdersFailed)
	}
	if !sess.Is(order.UserID) {
		return nil, newServiceError(CodeForbidden, msgNotYourBooking, nil)
	}
	if order.Status != models.StatusCompleted {
		return nil, newServiceError(CodeRatingNotAllowed, msgRatingNotAllowed, nil)
	}
	if order.IsRated() {
		return nil, newServiceError(CodeAlreadyRated, msgAlreadyRated, nil)
	}

	rating := req.Rating
	patch := store.OrderPatch{
		Rating:         &rating,
		ExpectedStatus: &order.Status,
		RequireUnrated: true,
	}
	var review *string
	if text := strings.TrimSpace(req.Review); text != "" {
		review = &text
		patch.Review = review
	}
	if s.markReviewed {
		reviewed := true
		patch.Reviewed = &reviewed
	}

	err = s.orders.UpdateOrder(ctx, order.ID, patch)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrConflict):
		// rated (or changed) by a concurrent request
		return nil, newServiceError(CodeAlreadyRated, msgAlreadyRated, err)
	case errors.Is(err, store.ErrNotFound):
		return nil, newServiceError(CodeOrderNotFound, msgOrderNotFound, err)
	default:
		return nil, storeFailure(err, "rate orders", msgRateFailed)
	}

	order.Rating = &rating
	order.Review = review
	if s.markReviewed {
		order.Reviewed = true
	}

	log.Printf("Order %s rated %d", order.ID, rating)
	publishOrderEvent(ctx, s.events, EventOrderRated, order)
	return order, nil
}
