package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
	"github.com/workhub-app/workhub-api/utils"
)

// Messages for account operations
const (
	msgUserNotFound      = "User data not found. Please create an account."
	msgWorkerNotFound    = "This account is not registered as a worker"
	msgUserExists        = "A user profile already exists for this account"
	msgWorkerExists      = "A worker profile already exists for this account"
	msgEmailInUse        = "This email address is already used by another account"
	msgLoadProfileFailed = "Failed to load user data"
	msgUpdateFailed      = "Failed to update profile"
	msgUploadFailed      = "Failed to upload image"
)

// CreateUserRequest is the sign-up form of a user
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	MobileNo string `json:"mobile_no" validate:"required"`
}

// UpdateUserRequest changes only the fields that are present
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	MobileNo *string `json:"mobile_no" validate:"omitempty,min=1"`
	Address  *string `json:"address"`
}

// CreateWorkerRequest is the sign-up form of a worker
type CreateWorkerRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Profession   string `json:"profession" validate:"required"`
	Experience   string `json:"experience" validate:"required"`
}

// UpdateWorkerRequest changes only the fields that are present
type UpdateWorkerRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	MobileNumber *string `json:"mobile_number" validate:"omitempty,min=1"`
	Profession   *string `json:"profession" validate:"omitempty,min=1"`
	Experience   *string `json:"experience"`
	Status       *string `json:"status" validate:"omitempty,oneof=available active other"`
}

var accountMessages = map[string]string{
	"email":  "Please enter a valid email address",
	"status": "Status must be one of available, active or other",
}

// AccountService manages the caller's user and worker profiles
type AccountService struct {
	accounts store.AccountStore
	images   ImageService
	cache    WorkerCache
}

var accountServiceInstance *AccountService

// NewAccountService creates an AccountService. Worker changes invalidate cache.
func NewAccountService(accounts store.AccountStore, images ImageService, cache WorkerCache) *AccountService {
	if cache == nil {
		cache = NoopWorkerCache{}
	}
	return &AccountService{accounts: accounts, images: images, cache: cache}
}

// InitAccountService installs the global account service
func InitAccountService(accounts store.AccountStore, images ImageService, cache WorkerCache) *AccountService {
	accountServiceInstance = NewAccountService(accounts, images, cache)
	return accountServiceInstance
}

// GetAccountService returns the installed account service
func GetAccountService() *AccountService {
	return accountServiceInstance
}

// SetAccountService replaces the account service (primarily for testing)
func SetAccountService(s *AccountService) {
	accountServiceInstance = s
}

// CreateUser registers the session identity as a user
func (s *AccountService) CreateUser(ctx context.Context, sess session.Session, req CreateUserRequest) (*models.User, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.MobileNo = strings.TrimSpace(req.MobileNo)
	if verr := validateInput(&req, accountMessages); verr != nil {
		return nil, verr
	}

	user := &models.User{
		ID:       sess.UID,
		Name:     req.Name,
		Email:    req.Email,
		MobileNo: req.MobileNo,
	}
	if err := s.accounts.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			_, lookupErr := s.accounts.GetUser(ctx, sess.UID)
			return nil, duplicateAccount(err, lookupErr, msgUserExists)
		}
		return nil, storeFailure(err, "create accounts", "Failed to create account")
	}

	log.Printf("User %s registered", user.ID)
	return user, nil
}

// duplicateAccount tells a second profile for the same identity apart from
// an email taken by another account. lookupErr is the result of reading the
// profile by identity after the insert failed.
func duplicateAccount(err, lookupErr error, existsMsg string) *ServiceError {
	if errors.Is(lookupErr, store.ErrNotFound) {
		return newServiceError(CodeEmailInUse, msgEmailInUse, err)
	}
	return newServiceError(CodeAccountExists, existsMsg, err)
}

// GetUser returns the session user's profile
func (s *AccountService) GetUser(ctx context.Context, sess session.Session) (*models.User, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	user, err := s.accounts.GetUser(ctx, sess.UID)
	if err != nil {
		return nil, loadFailure(err, CodeUserNotFound, msgUserNotFound, "view this profile", msgLoadProfileFailed)
	}
	user.ProfileImageURL = presignInto(ctx, s.images, user.ProfileImageKey)
	return user, nil
}

// UpdateUser applies the present fields of req to the session user
func (s *AccountService) UpdateUser(ctx context.Context, sess session.Session, req UpdateUserRequest) (*models.User, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	req.Name, req.MobileNo, req.Address = trimPtr(req.Name), trimPtr(req.MobileNo), trimPtr(req.Address)
	if verr := validateInput(&req, accountMessages); verr != nil {
		return nil, verr
	}

	update := store.UserUpdate{Name: req.Name, MobileNo: req.MobileNo, Address: req.Address}
	if err := s.accounts.UpdateUser(ctx, sess.UID, update); err != nil {
		return nil, loadFailure(err, CodeUserNotFound, msgUserNotFound, "update this profile", msgUpdateFailed)
	}
	return s.GetUser(ctx, sess)
}

// SetUserImage uploads a new profile image and replaces the previous one
func (s *AccountService) SetUserImage(ctx context.Context, sess session.Session, fileHeader *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetUser(ctx, sess)
	if err != nil {
		return nil, err
	}

	key, err := s.uploadImage(ctx, ProfileImage, fileHeader)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.UpdateUser(ctx, sess.UID, store.UserUpdate{ProfileImageKey: &key}); err != nil {
		s.discardImage(ctx, key)
		return nil, loadFailure(err, CodeUserNotFound, msgUserNotFound, "update this profile", msgUpdateFailed)
	}
	s.replaceImage(ctx, user.ProfileImageKey, key)

	return s.GetUser(ctx, sess)
}

// CreateWorker registers the session identity as a worker
func (s *AccountService) CreateWorker(ctx context.Context, sess session.Session, req CreateWorkerRequest) (*models.Worker, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	req.Profession = strings.TrimSpace(req.Profession)
	req.Experience = strings.TrimSpace(req.Experience)
	if verr := validateInput(&req, accountMessages); verr != nil {
		return nil, verr
	}

	worker := &models.Worker{
		ID:           sess.UID,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Profession:   req.Profession,
		Experience:   req.Experience,
		Rating:       0,
		Status:       models.WorkerAvailable,
		TotalJobs:    0,
	}
	if err := s.accounts.CreateWorker(ctx, worker); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			_, lookupErr := s.accounts.GetWorker(ctx, sess.UID)
			return nil, duplicateAccount(err, lookupErr, msgWorkerExists)
		}
		return nil, storeFailure(err, "create accounts", "Failed to create account")
	}

	s.invalidateDirectory(ctx)
	log.Printf("Worker %s registered as %s", worker.ID, worker.Profession)
	return worker, nil
}

// GetWorker returns the session worker's profile
func (s *AccountService) GetWorker(ctx context.Context, sess session.Session) (*models.Worker, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	worker, err := s.accounts.GetWorker(ctx, sess.UID)
	if err != nil {
		return nil, loadFailure(err, CodeWorkerNotFound, msgWorkerNotFound, "view this profile", msgLoadProfileFailed)
	}
	worker.ProfileImageURL = presignInto(ctx, s.images, worker.ProfileImageKey)
	return worker, nil
}

// UpdateWorker applies the present fields of req to the session worker
func (s *AccountService) UpdateWorker(ctx context.Context, sess session.Session, req UpdateWorkerRequest) (*models.Worker, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	req.Name, req.MobileNumber = trimPtr(req.Name), trimPtr(req.MobileNumber)
	req.Profession, req.Experience = trimPtr(req.Profession), trimPtr(req.Experience)
	req.Status = trimPtr(req.Status)
	if verr := validateInput(&req, accountMessages); verr != nil {
		return nil, verr
	}

	update := store.WorkerUpdate{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		Profession:   req.Profession,
		Experience:   req.Experience,
	}
	if req.Status != nil {
		status := models.WorkerStatus(*req.Status)
		update.Status = &status
	}

	if err := s.accounts.UpdateWorker(ctx, sess.UID, update); err != nil {
		return nil, loadFailure(err, CodeWorkerNotFound, msgWorkerNotFound, "update this profile", msgUpdateFailed)
	}
	s.invalidateDirectory(ctx)
	return s.GetWorker(ctx, sess)
}

// SetWorkerImage uploads a new profile image for the session worker
func (s *AccountService) SetWorkerImage(ctx context.Context, sess session.Session, fileHeader *multipart.FileHeader) (*models.Worker, error) {
	worker, err := s.GetWorker(ctx, sess)
	if err != nil {
		return nil, err
	}

	key, err := s.uploadImage(ctx, ProfileImage, fileHeader)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.UpdateWorker(ctx, sess.UID, store.WorkerUpdate{ProfileImageKey: &key}); err != nil {
		s.discardImage(ctx, key)
		return nil, loadFailure(err, CodeWorkerNotFound, msgWorkerNotFound, "update this profile", msgUpdateFailed)
	}
	s.replaceImage(ctx, worker.ProfileImageKey, key)
	s.invalidateDirectory(ctx)

	return s.GetWorker(ctx, sess)
}

func (s *AccountService) uploadImage(ctx context.Context, kind ImageKind, fileHeader *multipart.FileHeader) (string, error) {
	return uploadImage(ctx, s.images, kind, fileHeader)
}

// uploadImage maps upload validation and storage failures to service errors
func uploadImage(ctx context.Context, images ImageService, kind ImageKind, fileHeader *multipart.FileHeader) (string, error) {
	if images == nil {
		return "", newServiceError(CodeImageUploadFailed, msgUploadFailed, errors.New("image storage is not configured"))
	}

	key, err := images.UploadImage(ctx, kind, fileHeader)
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return "", newServiceError(CodeInvalidFileUpload, fileErr.Message, err)
		}
		return "", newServiceError(CodeImageUploadFailed, msgUploadFailed, err)
	}
	return key, nil
}

// replaceImage removes the previous image once the new key is stored
func (s *AccountService) replaceImage(ctx context.Context, previous *string, current string) {
	if previous == nil || *previous == "" || *previous == current {
		return
	}
	s.discardImage(ctx, *previous)
}

func (s *AccountService) discardImage(ctx context.Context, key string) {
	if err := s.images.DeleteImage(ctx, key); err != nil {
		log.Printf("Failed to delete image %s: %v", key, err)
	}
}

func (s *AccountService) invalidateDirectory(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", WorkersByRatingKey, err)
	}
}
