package services

import (
	"context"
	"log"
	"mime/multipart"
	"strings"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/session"
	"github.com/workhub-app/workhub-api/store"
)

const (
	msgCaptionRequired  = "Please add an image and a caption"
	msgCreatePostFailed = "Failed to publish post"
)

// PostService publishes image posts on the session worker's profile
type PostService struct {
	accounts store.AccountStore
	posts    store.PostStore
	images   ImageService
}

var postServiceInstance *PostService

// NewPostService creates a PostService
func NewPostService(accounts store.AccountStore, posts store.PostStore, images ImageService) *PostService {
	return &PostService{accounts: accounts, posts: posts, images: images}
}

// InitPostService installs the global post service
func InitPostService(accounts store.AccountStore, posts store.PostStore, images ImageService) *PostService {
	postServiceInstance = NewPostService(accounts, posts, images)
	return postServiceInstance
}

// GetPostService returns the installed post service
func GetPostService() *PostService {
	return postServiceInstance
}

// SetPostService replaces the post service (primarily for testing)
func SetPostService(s *PostService) {
	postServiceInstance = s
}

// Create uploads the image and records a post for the session worker
func (s *PostService) Create(ctx context.Context, sess session.Session, caption string, fileHeader *multipart.FileHeader) (*models.Post, error) {
	if err := sess.Validate(); err != nil {
		return nil, newServiceError(CodeValidation, msgMissingSession, err)
	}

	caption = strings.TrimSpace(caption)
	if caption == "" || fileHeader == nil {
		return nil, validationError(msgCaptionRequired)
	}

	if _, err := s.accounts.GetWorker(ctx, sess.UID); err != nil {
		return nil, loadFailure(err, CodeWorkerNotFound, msgWorkerNotFound, "publish posts", msgCreatePostFailed)
	}

	key, err := uploadImage(ctx, s.images, PostImage, fileHeader)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		WorkerID: sess.UID,
		ImageKey: key,
		Caption:  caption,
	}
	if _, err := s.posts.CreatePost(ctx, post); err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			log.Printf("Failed to delete orphaned post image %s: %v", key, delErr)
		}
		return nil, storeFailure(err, "publish posts", msgCreatePostFailed)
	}

	post.ImageURL = presignInto(ctx, s.images, &post.ImageKey)
	log.Printf("Worker %s published post %s", post.WorkerID, post.ID)
	return post, nil
}
