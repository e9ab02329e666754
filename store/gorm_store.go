package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/workhub-app/workhub-api/models"
	"gorm.io/gorm"
)

// GormStore implements Store on a relational database through GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the tables used by GormStore
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.Order{},
		&models.Post{},
		&models.Review{},
	)
}

// CreateOrder implements OrderStore
func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return "", fmt.Errorf("failed to create order: %w", classifyGormError(err))
	}
	return o.ID, nil
}

// QueryOrders implements OrderStore
func (s *GormStore) QueryOrders(ctx context.Context, field OrderField, value string) ([]models.Order, error) {
	if !field.IsValid() {
		return nil, fmt.Errorf("unsupported order field %q", field)
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where(string(field)+" = ?", value).
		Order("created_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", classifyGormError(err))
	}

	for i := range orders {
		orders[i].ApplyReadDefaults()
	}
	return orders, nil
}

// GetOrder implements OrderStore
func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, classifyGormError(err))
	}
	order.ApplyReadDefaults()
	return &order, nil
}

// UpdateOrder implements OrderStore
func (s *GormStore) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	updates := map[string]interface{}{}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Review != nil {
		updates["review"] = *patch.Review
	}
	if patch.Reviewed != nil {
		updates["reviewed"] = *patch.Reviewed
	}

	if len(updates) == 0 {
		return s.orderExists(ctx, id)
	}

	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if patch.ExpectedStatus != nil {
		query = query.Where("status = ?", *patch.ExpectedStatus)
	}
	if patch.RequireUnrated {
		query = query.Where("rating IS NULL")
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, classifyGormError(result.Error))
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// nothing matched: either the order is gone or a guard failed
	if err := s.orderExists(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("order %s: %w", id, ErrConflict)
}

func (s *GormStore) orderExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up order %s: %w", id, classifyGormError(err))
	}
	if count == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetUser implements AccountStore
func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, classifyGormError(err))
	}
	return &user, nil
}

// CreateUser implements AccountStore
func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", classifyGormError(err))
	}
	return nil
}

// UpdateUser implements AccountStore
func (s *GormStore) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.MobileNo != nil {
		updates["mobile_no"] = *update.MobileNo
	}
	if update.Address != nil {
		updates["address"] = *update.Address
	}
	if update.ProfileImageKey != nil {
		updates["profile_image_key"] = *update.ProfileImageKey
	}
	return s.updateAccount(ctx, &models.User{}, "user", id, updates)
}

// GetWorker implements AccountStore
func (s *GormStore) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.WithContext(ctx).First(&worker, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, classifyGormError(err))
	}
	worker.ApplyReadDefaults()
	return &worker, nil
}

// CreateWorker implements AccountStore
func (s *GormStore) CreateWorker(ctx context.Context, w *models.Worker) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to create worker: %w", classifyGormError(err))
	}
	return nil
}

// UpdateWorker implements AccountStore
func (s *GormStore) UpdateWorker(ctx context.Context, id string, update WorkerUpdate) error {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.MobileNumber != nil {
		updates["mobile_number"] = *update.MobileNumber
	}
	if update.Profession != nil {
		updates["profession"] = *update.Profession
	}
	if update.Experience != nil {
		updates["experience"] = *update.Experience
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.ProfileImageKey != nil {
		updates["profile_image_key"] = *update.ProfileImageKey
	}
	return s.updateAccount(ctx, &models.Worker{}, "worker", id, updates)
}

func (s *GormStore) updateAccount(ctx context.Context, model interface{}, kind, id string, updates map[string]interface{}) error {
	db := s.db.WithContext(ctx).Model(model).Where("id = ?", id)
	if len(updates) == 0 {
		var count int64
		if err := db.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up %s %s: %w", kind, id, classifyGormError(err))
		}
		if count == 0 {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return nil
	}

	result := db.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, classifyGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// ListWorkers implements AccountStore
func (s *GormStore) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	if err := s.db.WithContext(ctx).Order("rating DESC, name").Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", classifyGormError(err))
	}
	for i := range workers {
		workers[i].ApplyReadDefaults()
	}
	return workers, nil
}

// CreatePost implements PostStore
func (s *GormStore) CreatePost(ctx context.Context, p *models.Post) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", fmt.Errorf("failed to create post: %w", classifyGormError(err))
	}
	return p.ID, nil
}

// ListPosts implements PostStore
func (s *GormStore) ListPosts(ctx context.Context, workerID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", classifyGormError(err))
	}
	return posts, nil
}

// ListReviews implements PostStore
func (s *GormStore) ListReviews(ctx context.Context, workerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", classifyGormError(err))
	}
	return reviews, nil
}

var _ Store = (*GormStore)(nil)
