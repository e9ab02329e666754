package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/store"
)

const (
	msgWorkerMissing     = "Worker not found"
	msgLoadWorkersFailed = "Failed to load workers"
	msgLoadPostsFailed   = "Failed to load posts"
	msgLoadReviewsFailed = "Failed to load reviews"
)

// WorkerDirectoryService lets users browse and search workers
type WorkerDirectoryService struct {
	accounts store.AccountStore
	posts    store.PostStore
	images   ImageService
	cache    WorkerCache
}

var workerDirectoryInstance *WorkerDirectoryService

// NewWorkerDirectoryService creates a WorkerDirectoryService
func NewWorkerDirectoryService(accounts store.AccountStore, posts store.PostStore, images ImageService, cache WorkerCache) *WorkerDirectoryService {
	if cache == nil {
		cache = NoopWorkerCache{}
	}
	return &WorkerDirectoryService{accounts: accounts, posts: posts, images: images, cache: cache}
}

// InitWorkerDirectoryService installs the global directory
func InitWorkerDirectoryService(accounts store.AccountStore, posts store.PostStore, images ImageService, cache WorkerCache) *WorkerDirectoryService {
	workerDirectoryInstance = NewWorkerDirectoryService(accounts, posts, images, cache)
	return workerDirectoryInstance
}

// GetWorkerDirectoryService returns the installed directory
func GetWorkerDirectoryService() *WorkerDirectoryService {
	return workerDirectoryInstance
}

// SetWorkerDirectoryService replaces the directory (primarily for testing)
func SetWorkerDirectoryService(s *WorkerDirectoryService) {
	workerDirectoryInstance = s
}

// List returns workers by rating descending, filtered by query when it is
// not blank
func (s *WorkerDirectoryService) List(ctx context.Context, query string) ([]models.Worker, error) {
	workers, err := s.rankedWorkers(ctx)
	if err != nil {
		return nil, err
	}

	workers = FilterWorkers(workers, query)
	for i := range workers {
		workers[i].ProfileImageURL = presignInto(ctx, s.images, workers[i].ProfileImageKey)
	}
	return workers, nil
}

// rankedWorkers reads through the cache. Cache errors fall back to the store.
func (s *WorkerDirectoryService) rankedWorkers(ctx context.Context) ([]models.Worker, error) {
	cached, ok, err := s.cache.GetWorkers(ctx)
	if err != nil {
		log.Printf("[CACHE] Failed to read %s: %v", WorkersByRatingKey, err)
	}
	if ok {
		return cached, nil
	}

	workers, err := s.accounts.ListWorkers(ctx)
	if err != nil {
		return nil, storeFailure(err, "view workers", msgLoadWorkersFailed)
	}

	if err := s.cache.SetWorkers(ctx, workers); err != nil {
		log.Printf("[CACHE] Failed to write %s: %v", WorkersByRatingKey, err)
	}
	return workers, nil
}

// FilterWorkers keeps workers whose name, profession, experience or rating
// contains query, ignoring case. A blank query keeps everything.
func FilterWorkers(workers []models.Worker, query string) []models.Worker {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return workers
	}

	filtered := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		fields := []string{
			w.Name,
			w.Profession,
			w.Experience,
			strconv.FormatFloat(w.Rating, 'f', -1, 64),
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				filtered = append(filtered, w)
				break
			}
		}
	}
	return filtered
}

// Get returns one worker's public profile
func (s *WorkerDirectoryService) Get(ctx context.Context, workerID string) (*models.Worker, error) {
	worker, err := s.accounts.GetWorker(ctx, workerID)
	if err != nil {
		return nil, loadFailure(err, CodeWorkerNotFound, msgWorkerMissing, "view workers", msgLoadWorkersFailed)
	}
	worker.ProfileImageURL = presignInto(ctx, s.images, worker.ProfileImageKey)
	return worker, nil
}

// Posts returns a worker's posts, newest first, with image URLs
func (s *WorkerDirectoryService) Posts(ctx context.Context, workerID string) ([]models.Post, error) {
	posts, err := s.posts.ListPosts(ctx, workerID)
	if err != nil {
		return nil, storeFailure(err, "view posts", msgLoadPostsFailed)
	}
	for i := range posts {
		key := posts[i].ImageKey
		posts[i].ImageURL = presignInto(ctx, s.images, &key)
	}
	return posts, nil
}

// Reviews returns a worker's reviews, newest first
func (s *WorkerDirectoryService) Reviews(ctx context.Context, workerID string) ([]models.Review, error) {
	reviews, err := s.posts.ListReviews(ctx, workerID)
	if err != nil {
		return nil, storeFailure(err, "view reviews", msgLoadReviewsFailed)
	}
	return reviews, nil
}
