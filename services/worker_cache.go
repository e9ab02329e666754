package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/workhub-app/workhub-api/models"
)

// WorkersByRatingKey holds the rating-ordered worker directory
const WorkersByRatingKey = "workers:by_rating"

// WorkerCache stores the rating-ordered worker list
type WorkerCache interface {
	// GetWorkers returns the cached list; ok is false on a miss
	GetWorkers(ctx context.Context) (workers []models.Worker, ok bool, err error)
	SetWorkers(ctx context.Context, workers []models.Worker) error
	Invalidate(ctx context.Context) error
}

// NoopWorkerCache never holds anything
type NoopWorkerCache struct{}

func (NoopWorkerCache) GetWorkers(context.Context) ([]models.Worker, bool, error) {
	return nil, false, nil
}
func (NoopWorkerCache) SetWorkers(context.Context, []models.Worker) error { return nil }
func (NoopWorkerCache) Invalidate(context.Context) error                  { return nil }

// RedisWorkerCache keeps the list as one JSON value with a TTL
type RedisWorkerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisWorkerCache wraps client
func NewRedisWorkerCache(client *redis.Client, ttl time.Duration) *RedisWorkerCache {
	return &RedisWorkerCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server answers
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// GetWorkers implements WorkerCache
func (c *RedisWorkerCache) GetWorkers(ctx context.Context) ([]models.Worker, bool, error) {
	data, err := c.client.Get(ctx, WorkersByRatingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", WorkersByRatingKey, err)
	}

	var workers []models.Worker
	if err := json.Unmarshal(data, &workers); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", WorkersByRatingKey, err)
	}
	return workers, true, nil
}

// SetWorkers implements WorkerCache
func (c *RedisWorkerCache) SetWorkers(ctx context.Context, workers []models.Worker) error {
	data, err := json.Marshal(workers)
	if err != nil {
		return fmt.Errorf("failed to encode workers: %w", err)
	}
	if err := c.client.Set(ctx, WorkersByRatingKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", WorkersByRatingKey, err)
	}
	return nil
}

// Invalidate implements WorkerCache
func (c *RedisWorkerCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, WorkersByRatingKey).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", WorkersByRatingKey, err)
	}
	return nil
}
