package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
	"github.com/workhub-app/workhub-api/services"
	"github.com/workhub-app/workhub-api/session"
)

// statusForCode maps a service error code to its HTTP status
func statusForCode(code string) int {
	switch code {
	case services.CodeValidation, services.CodeInvalidFileUpload:
		return http.StatusBadRequest
	case services.CodeForbidden, services.CodePermissionDenied:
		return http.StatusForbidden
	case services.CodeOrderNotFound, services.CodeUserNotFound, services.CodeWorkerNotFound:
		return http.StatusNotFound
	case services.CodeInvalidTransition, services.CodeRatingNotAllowed,
		services.CodeAlreadyRated, services.CodeAccountExists, services.CodeEmailInUse:
		return http.StatusConflict
	case services.CodeStoreUnavailable, services.CodeUserInfoUnresolved:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError writes err in the error envelope. Service failures end
// here and are logged once.
func respondServiceError(c *gin.Context, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("[%s %s] unexpected error: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong. Please try again.")
		return
	}

	status := statusForCode(se.Code)
	if status >= http.StatusInternalServerError || se.Err != nil {
		log.Printf("[%s %s] %v", c.Request.Method, c.FullPath(), se)
	}
	respondError(c, status, se.Code, se.Message)
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// requireSession returns the caller's session or writes 401
func requireSession(c *gin.Context) (session.Session, bool) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return session.Session{}, false
	}
	return sess, true
}

// bindJSON decodes the request body or writes 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, services.CodeValidation, "Invalid request data")
		return false
	}
	return true
}

// pathID returns the trimmed :id route parameter
func pathID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
