package services

import (
	"errors"
	"fmt"

	"github.com/workhub-app/workhub-api/store"
)

// Error codes returned to clients
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeWorkerNotFound     = "WORKER_NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeRatingNotAllowed   = "RATING_NOT_ALLOWED"
	CodeAlreadyRated       = "ALREADY_RATED"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeAccountExists      = "USER_EXISTS"
	CodeEmailInUse         = "EMAIL_IN_USE"
	CodeImageUploadFailed  = "IMAGE_UPLOAD_FAILED"
	CodeInvalidFileUpload  = "INVALID_FILE"
	CodeUserInfoUnresolved = "USER_INFO_UNAVAILABLE"
)

// Messages shown for store failures
const (
	msgStoreUnavailable = "Server is unavailable. Please check your internet connection."
	msgOrderNotFound    = "Order not found"
)

// ServiceError is a failure with a client-facing code and message
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// AsServiceError extracts a ServiceError from err's chain
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}

func newServiceError(code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

func validationError(message string) *ServiceError {
	return newServiceError(CodeValidation, message, nil)
}

// storeFailure translates a store error. action completes the sentence
// "You do not have permission to ..." and fallback is the generic message.
func storeFailure(err error, action, fallback string) *ServiceError {
	switch {
	case errors.Is(err, store.ErrPermissionDenied):
		return newServiceError(CodePermissionDenied, fmt.Sprintf("You do not have permission to %s.", action), err)
	case errors.Is(err, store.ErrUnavailable):
		return newServiceError(CodeStoreUnavailable, msgStoreUnavailable, err)
	default:
		return newServiceError(CodeDatabaseError, fallback, err)
	}
}

// loadFailure is storeFailure with not-found mapped to notFound
func loadFailure(err error, notFoundCode, notFoundMsg, action, fallback string) *ServiceError {
	if errors.Is(err, store.ErrNotFound) {
		return newServiceError(notFoundCode, notFoundMsg, err)
	}
	return storeFailure(err, action, fallback)
}
