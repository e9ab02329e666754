package controllers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
	"github.com/workhub-app/workhub-api/services"
)

// CreateUser handles POST /api/v1/users - registers the caller as a user.
// Name and email missing from the body are taken from Auth0's /userinfo.
func CreateUser(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, services.CodeValidation, "Invalid request data")
		return
	}

	if req.Email == "" || req.Name == "" {
		info, err := lookupUserInfo(c)
		if err != nil {
			log.Printf("Failed to fetch user information from Auth0: %v", err)
			respondError(c, http.StatusServiceUnavailable, services.CodeUserInfoUnresolved, "Failed to fetch user information from Auth0")
			return
		}
		if req.Email == "" {
			req.Email = info.Email
		}
		if req.Name == "" {
			req.Name = info.Name
		}
	}

	user, err := services.GetAccountService().CreateUser(c.Request.Context(), sess, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, user)
}

func lookupUserInfo(c *gin.Context) (*services.Auth0UserInfo, error) {
	provider := services.GetUserInfoProvider()
	if provider == nil {
		return nil, errors.New("no user info provider configured")
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		return nil, err
	}
	return provider.GetUserInfo(c.Request.Context(), accessToken)
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := services.GetAccountService().GetUser(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates the provided fields
func UpdateMyProfile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := services.GetAccountService().UpdateUser(c.Request.Context(), sess, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// UploadMyProfileImage handles PUT /api/v1/users/me/image (multipart "image")
func UploadMyProfileImage(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := services.GetAccountService().SetUserImage(c.Request.Context(), sess, formImage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// formImage returns the "image" part, or nil when the request has none
func formImage(c *gin.Context) *multipart.FileHeader {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fileHeader
}
