// Package store defines the persistence contracts of the marketplace and
// their GORM and MongoDB implementations.
package store

import (
	"context"
	"errors"

	"github.com/workhub-app/workhub-api/models"
)

// Sentinel errors. Implementations wrap the driver error with one of these so
// callers can branch with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record changed concurrently")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("store unavailable")
	ErrDuplicate        = errors.New("record already exists")
)

// OrderField names an order attribute that can be queried by equality
type OrderField string

const (
	OrderFieldUser   OrderField = "user_id"
	OrderFieldWorker OrderField = "worker_id"
)

// IsValid reports whether f can be used with QueryOrders
func (f OrderField) IsValid() bool {
	return f == OrderFieldUser || f == OrderFieldWorker
}

// OrderPatch is a partial order update. Nil fields are left untouched.
//
// ExpectedStatus and RequireUnrated turn the update into a compare-and-set:
// when the stored order no longer matches, UpdateOrder returns ErrConflict and
// writes nothing.
type OrderPatch struct {
	Status   *models.OrderStatus
	Rating   *int
	Review   *string
	Reviewed *bool

	ExpectedStatus *models.OrderStatus
	RequireUnrated bool
}

// IsEmpty reports whether the patch changes nothing
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.Rating == nil && p.Review == nil && p.Reviewed == nil
}

// UserUpdate is a partial user profile update
type UserUpdate struct {
	Name            *string
	MobileNo        *string
	Address         *string
	ProfileImageKey *string
}

// WorkerUpdate is a partial worker profile update
type WorkerUpdate struct {
	Name            *string
	MobileNumber    *string
	Profession      *string
	Experience      *string
	Status          *models.WorkerStatus
	ProfileImageKey *string
}

// OrderStore persists orders
type OrderStore interface {
	// CreateOrder stores o, assigns its ID and CreatedAt, and returns the ID
	CreateOrder(ctx context.Context, o *models.Order) (string, error)
	// QueryOrders returns every order whose field equals value, in store order
	QueryOrders(ctx context.Context, field OrderField, value string) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, patch OrderPatch) error
}

// AccountStore persists user and worker profiles keyed by identity subject
type AccountStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id string, update UserUpdate) error

	GetWorker(ctx context.Context, id string) (*models.Worker, error)
	CreateWorker(ctx context.Context, w *models.Worker) error
	UpdateWorker(ctx context.Context, id string, update WorkerUpdate) error
	// ListWorkers returns all workers, highest rating first
	ListWorkers(ctx context.Context) ([]models.Worker, error)
}

// PostStore persists worker posts and reads worker reviews
type PostStore interface {
	CreatePost(ctx context.Context, p *models.Post) (string, error)
	// ListPosts returns a worker's posts, newest first
	ListPosts(ctx context.Context, workerID string) ([]models.Post, error)
	// ListReviews returns a worker's reviews, newest first
	ListReviews(ctx context.Context, workerID string) ([]models.Review, error)
}

// Store is the full persistence surface used by the API
type Store interface {
	OrderStore
	AccountStore
	PostStore
}
