package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
)

// RegisterRoutes adds every authenticated endpoint to api. The caller puts
// token validation on api.
func RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("", CreateUser)
		users.GET("/me", GetMyProfile)
		users.PUT("/me", UpdateMyProfile)
		users.PUT("/me/image", UploadMyProfileImage)
	}

	workers := api.Group("/workers")
	{
		workers.POST("", CreateWorker)
		workers.GET("", ListWorkers)
		workers.GET("/me", GetMyWorkerProfile)
		workers.PUT("/me", UpdateMyWorkerProfile)
		workers.PUT("/me/image", UploadMyWorkerImage)
		workers.POST("/me/posts", CreatePost)
		workers.GET("/:id", GetWorker)
		workers.GET("/:id/posts", ListWorkerPosts)
		workers.GET("/:id/reviews", ListWorkerReviews)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", CreateOrder)
		orders.GET("/mine", ListMyOrders)
		orders.PUT("/:id/rating", RateOrder)
	}

	workerOrders := api.Group("/worker/orders")
	{
		workerOrders.GET("", ListWorkerOrders)
		workerOrders.PUT("/:id/accept", AcceptOrder)
		workerOrders.PUT("/:id/decline", DeclineOrder)
	}

	internal := api.Group("/internal", middleware.RequireScope(middleware.ScopeCompleteOrders))
	{
		internal.PUT("/orders/:id/complete", CompleteOrder)
	}
}
