package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/services"
	"github.com/workhub-app/workhub-api/session"
)

// ListWorkerOrders handles GET /api/v1/worker/orders - orders assigned to the
// calling worker, pending first
func ListWorkerOrders(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	orders, err := services.GetWorkerOrderService().ListOrders(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    orders,
			"message": services.NoOrdersMessage,
		})
		return
	}

	respondData(c, http.StatusOK, orders)
}

// AcceptOrder handles PUT /api/v1/worker/orders/:id/accept
func AcceptOrder(c *gin.Context) {
	decideOrder(c, middleware.OpAcceptOrder, services.GetWorkerOrderService().Accept)
}

// DeclineOrder handles PUT /api/v1/worker/orders/:id/decline
func DeclineOrder(c *gin.Context) {
	decideOrder(c, middleware.OpDeclineOrder, services.GetWorkerOrderService().Decline)
}

type orderDecision func(ctx context.Context, sess session.Session, orderID string) (*models.Order, error)

func decideOrder(c *gin.Context, op string, decide orderDecision) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	order, err := decide(c.Request.Context(), sess, pathID(c))
	middleware.RecordOrderOperation(op, err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// CompleteOrder handles PUT /api/v1/internal/orders/:id/complete. The route
// is guarded by the order completion scope.
func CompleteOrder(c *gin.Context) {
	order, err := services.GetWorkerOrderService().Complete(c.Request.Context(), pathID(c))
	middleware.RecordOrderOperation(middleware.OpCompleteOrder, err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}
