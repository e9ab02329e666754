package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
	"github.com/workhub-app/workhub-api/services"
)

// CreateOrder handles POST /api/v1/orders - books a worker for the caller
func CreateOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := services.GetBookingService().Submit(c.Request.Context(), sess, req)
	middleware.RecordOrderOperation(middleware.OpSubmitBooking, err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, order)
}

// ListMyOrders handles GET /api/v1/orders/mine - the caller's bookings, newest first
func ListMyOrders(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	orders, err := services.GetUserOrderService().ListOrders(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, orders)
}

// RateOrder handles PUT /api/v1/orders/:id/rating - rates a completed booking
func RateOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := services.GetUserOrderService().Rate(c.Request.Context(), sess, pathID(c), req)
	middleware.RecordOrderOperation(middleware.OpRateOrder, err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}
