package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/services"
)

// CreateWorker handles POST /api/v1/workers - registers the caller as a worker
func CreateWorker(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.CreateWorkerRequest
	if !bindJSON(c, &req) {
		return
	}

	worker, err := services.GetAccountService().CreateWorker(c.Request.Context(), sess, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, worker)
}

// GetMyWorkerProfile handles GET /api/v1/workers/me
func GetMyWorkerProfile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	worker, err := services.GetAccountService().GetWorker(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, worker)
}

// UpdateMyWorkerProfile handles PUT /api/v1/workers/me
func UpdateMyWorkerProfile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.UpdateWorkerRequest
	if !bindJSON(c, &req) {
		return
	}

	worker, err := services.GetAccountService().UpdateWorker(c.Request.Context(), sess, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, worker)
}

// UploadMyWorkerImage handles PUT /api/v1/workers/me/image (multipart "image")
func UploadMyWorkerImage(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	worker, err := services.GetAccountService().SetWorkerImage(c.Request.Context(), sess, formImage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, worker)
}

// CreatePost handles POST /api/v1/workers/me/posts (multipart "image" and "caption")
func CreatePost(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	post, err := services.GetPostService().Create(c.Request.Context(), sess, c.PostForm("caption"), formImage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, post)
}

// ListWorkers handles GET /api/v1/workers?q= - the directory by rating
func ListWorkers(c *gin.Context) {
	workers, err := services.GetWorkerDirectoryService().List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, workers)
}

// GetWorker handles GET /api/v1/workers/:id
func GetWorker(c *gin.Context) {
	worker, err := services.GetWorkerDirectoryService().Get(c.Request.Context(), pathID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, worker)
}

// ListWorkerPosts handles GET /api/v1/workers/:id/posts
func ListWorkerPosts(c *gin.Context) {
	posts, err := services.GetWorkerDirectoryService().Posts(c.Request.Context(), pathID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, posts)
}

// ListWorkerReviews handles GET /api/v1/workers/:id/reviews
func ListWorkerReviews(c *gin.Context) {
	reviews, err := services.GetWorkerDirectoryService().Reviews(c.Request.Context(), pathID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, reviews)
}
